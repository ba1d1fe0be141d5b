package codegen

import (
	"errors"
	"fmt"
	"go/types"
	"path/filepath"

	"github.com/Yamashou/uibindgen/symbols"
)

// ErrGenericOwner reports a type group whose owner has type parameters.
// Generated code converts elements to the owner type, which needs a fully
// instantiated type.
var ErrGenericOwner = errors.New("generic owner types are not supported")

// TypeGroup is the set of accepted members declared by one type.
type TypeGroup struct {
	Owner   *types.TypeName
	Members []*symbols.Member
}

// Name returns the owner's name.
func (g *TypeGroup) Name() string {
	return g.Owner.Name()
}

// Dir returns the directory holding the group's source.
func (g *TypeGroup) Dir() string {
	if len(g.Members) == 0 || g.Members[0].Pos.Filename == "" {
		return "."
	}
	return filepath.Dir(g.Members[0].Pos.Filename)
}

// Validate reports whether code can be generated for g at all.
func (g *TypeGroup) Validate() error {
	named, ok := g.Owner.Type().(*types.Named)
	if ok && named.TypeParams().Len() > 0 {
		return fmt.Errorf("%s: %w", g.Name(), ErrGenericOwner)
	}
	return nil
}

// Group partitions members by owner. Groups appear in the order their owner
// was first seen and members keep their relative order.
func Group(members []*symbols.Member) []*TypeGroup {
	var groups []*TypeGroup
	index := make(map[*types.TypeName]*TypeGroup)

	for _, m := range members {
		g, ok := index[m.Owner]
		if !ok {
			g = &TypeGroup{Owner: m.Owner}
			index[m.Owner] = g
			groups = append(groups, g)
		}
		g.Members = append(g.Members, m)
	}

	return groups
}
