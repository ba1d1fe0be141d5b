// Package ui is a minimal stand-in for a retained mode UI framework.
package ui

// Element is anything that lives in the element tree.
type Element interface {
	Root() *VisualElement
}

// VisualElement is the base of every element.
type VisualElement struct {
	children map[string]Element
}

func (v *VisualElement) Root() *VisualElement { return v }

// Add registers child under name.
func (v *VisualElement) Add(name string, child Element) {
	if v.children == nil {
		v.children = make(map[string]Element)
	}
	v.children[name] = child
}

type Label struct {
	VisualElement
	Text string
}

type Panel struct {
	VisualElement
}

// AttributeBag holds the raw attribute values of a declared element.
type AttributeBag map[string]any

type CreationContext struct{}

type VisualElementTraits struct{}

func (VisualElementTraits) Init(ve Element, bag AttributeBag, cc CreationContext) {}

// UxmlFactory creates elements of type T configured by traits U.
type UxmlFactory[T any, U any] struct {
	Traits U
}

type IntAttributeDescription struct {
	Name         string
	DefaultValue int
}

func (d IntAttributeDescription) GetValueFromBag(bag AttributeBag, cc CreationContext) int {
	if v, ok := bag[d.Name].(int); ok {
		return v
	}
	return d.DefaultValue
}

type StringAttributeDescription struct {
	Name         string
	DefaultValue string
}

func (d StringAttributeDescription) GetValueFromBag(bag AttributeBag, cc CreationContext) string {
	if v, ok := bag[d.Name].(string); ok {
		return v
	}
	return d.DefaultValue
}

// Q returns the descendant named name, or the zero value.
func Q[T Element](e Element, name string) T {
	var zero T
	child, ok := e.Root().children[name]
	if !ok {
		return zero
	}
	if t, ok := child.(T); ok {
		return t
	}
	return zero
}

func GetComponent[T Element](e Element) T {
	var zero T
	return zero
}

func GetComponentInParent[T Element](e Element) T {
	var zero T
	return zero
}

func GetComponentInChildren[T Element](e Element) T {
	var zero T
	return zero
}
