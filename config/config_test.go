package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func ptr[T any](v T) *T {
	return &v
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	type args struct {
		file string
	}

	type want struct {
		config *Config
		// err はエラーメッセージに含まれるべき文字列
		err string
	}

	full := &Config{
		Packages: []string{"./hud/...", "./menu"},
		Framework: FrameworkConfig{
			Import: "example.com/game/uitoolkit",
			Alias:  "ui",
		},
		TraitGen: TraitGenConfig{
			Base:   "example.com/game/uitoolkit.VisualElement",
			Suffix: "traits",
		},
		ComponentGen: ComponentGenConfig{
			Enabled:       ptr(true),
			Base:          "VisualElement",
			Suffix:        "parts",
			StrictScope:   ptr(false),
			ComponentBase: "Component",
		},
		Markers: MarkersConfig{
			Dir:      "internal/markers",
			Package:  "markers",
			Filename: "markers.go",
		},
		Cache: CacheConfig{
			Filename: ".uibindgen-cache.json",
		},
	}

	tests := []struct {
		name string
		args args
		want want
	}{
		{
			name: "設定ファイルが存在しない場合はエラー",
			args: args{file: "doesnotexist.yml"},
			want: want{err: "unable to read config: open doesnotexist.yml"},
		},
		{
			name: "不正な形式の設定ファイルはエラー",
			args: args{file: "testdata/cfg/malformedconfig.yml"},
			want: want{err: "unable to parse config: "},
		},
		{
			name: "不明なキーが含まれている場合はエラー",
			args: args{file: "testdata/cfg/unknownkeys.yml"},
			want: want{err: `unknown field "unknown"`},
		},
		{
			name: "TOMLで不明なキーが含まれている場合はエラー",
			args: args{file: "testdata/cfg/unknownkeys.toml"},
			want: want{err: "unable to parse config: "},
		},
		{
			name: "framework.importが指定されていない場合はエラー",
			args: args{file: "testdata/cfg/no_framework.yml"},
			want: want{err: "'framework.import' must be set"},
		},
		{
			name: "importの末尾が識別子でなくaliasもない場合はエラー",
			args: args{file: "testdata/cfg/bad_alias.yml"},
			want: want{err: `'framework.alias' "ui-toolkit" is not a valid identifier`},
		},
		{
			name: "両方のジェネレータが無効な場合はエラー",
			args: args{file: "testdata/cfg/all_disabled.yml"},
			want: want{err: "neither 'traitgen' nor 'componentgen' is enabled"},
		},
		{
			name: "ファイル名の接尾辞が重複している場合はエラー",
			args: args{file: "testdata/cfg/same_suffix.yml"},
			want: want{err: `'traitgen.suffix' and 'componentgen.suffix' are both "gen"`},
		},
		{
			name: "最小構成ではデフォルト値が補完される",
			args: args{file: "testdata/cfg/minimal.yml"},
			want: want{config: &Config{
				Packages: []string{"./..."},
				Framework: FrameworkConfig{
					Import: "example.com/game/ui",
					Alias:  "ui",
				},
				TraitGen: TraitGenConfig{
					Base:   "VisualElement",
					Suffix: "ui",
				},
				ComponentGen: ComponentGenConfig{
					Base:   "VisualElement",
					Suffix: "components",
				},
				Markers: MarkersConfig{
					Dir:      "uibind",
					Package:  "uibind",
					Filename: "markers_gen.go",
				},
			}},
		},
		{
			name: "メジャーバージョン付きのimportではバージョンを除いた名前がaliasになる",
			args: args{file: "testdata/cfg/versioned.yml"},
			want: want{config: &Config{
				Packages: []string{"./..."},
				Framework: FrameworkConfig{
					Import: "example.com/game/ui/v2",
					Alias:  "ui",
				},
				TraitGen: TraitGenConfig{
					Base:   "VisualElement",
					Suffix: "ui",
				},
				ComponentGen: ComponentGenConfig{
					Base:   "VisualElement",
					Suffix: "components",
				},
				Markers: MarkersConfig{
					Dir:      "uibind",
					Package:  "uibind",
					Filename: "markers_gen.go",
				},
			}},
		},
		{
			name: "全項目を指定したYAMLを正しく読み込める",
			args: args{file: "testdata/cfg/full.yml"},
			want: want{config: full},
		},
		{
			name: "全項目を指定したTOMLを正しく読み込める",
			args: args{file: "testdata/cfg/full.toml"},
			want: want{config: full},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := LoadConfig(tt.args.file)

			// エラーチェック
			if tt.want.err != "" {
				if err == nil {
					t.Fatalf("error = nil, want error containing %q", tt.want.err)
				}
				if !strings.Contains(err.Error(), tt.want.err) {
					t.Errorf("error message = %q, want containing %q", err.Error(), tt.want.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v, want nil", err)
			}

			if diff := cmp.Diff(tt.want.config, got, cmpopts.IgnoreFields(Config{}, "Dir")); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
			if !filepath.IsAbs(got.Dir) {
				t.Errorf("Dir = %q, want absolute", got.Dir)
			}
		})
	}
}

func TestLoadConfig_ExpandEnv(t *testing.T) {
	t.Setenv("UIBINDGEN_TEST_FRAMEWORK", "example.com/env/widgets")

	got, err := LoadConfig("testdata/cfg/env.yml")
	if err != nil {
		t.Fatalf("error = %v, want nil", err)
	}

	want := FrameworkConfig{Import: "example.com/env/widgets", Alias: "widgets"}
	if diff := cmp.Diff(want, got.Framework); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
}

func TestDefaultAlias(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"example.com/game/ui":    "ui",
		"example.com/game/ui/v2": "ui",
		"example.com/game/v2ui":  "v2ui",
		"gopkg.in/widgets.v3":    "widgets",
		"ui":                     "ui",
	}
	for in, want := range tests {
		if diff := cmp.Diff(want, DefaultAlias(in)); diff != "" {
			t.Errorf("DefaultAlias(%q) diff(-want +got): %s", in, diff)
		}
	}
}

func TestConfig_Flags(t *testing.T) {
	t.Parallel()

	c := Default("example.com/ui")
	if !c.TraitGen.IsEnabled() || !c.ComponentGen.IsEnabled() {
		t.Error("generators are disabled by default")
	}
	if !c.ComponentGen.IsStrictScope() {
		t.Error("strict scope is off by default")
	}
	if err := c.Check(); err != nil {
		t.Errorf("Default().Check() = %v", err)
	}

	c.ComponentGen.StrictScope = ptr(false)
	c.TraitGen.Enabled = ptr(false)
	if c.ComponentGen.IsStrictScope() || c.TraitGen.IsEnabled() {
		t.Error("explicit false is ignored")
	}
}

func TestConfig_Path(t *testing.T) {
	t.Parallel()

	c := &Config{Dir: filepath.FromSlash("/work/game")}

	if diff := cmp.Diff(filepath.FromSlash("/work/game/uibind"), c.Path("uibind")); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
	abs := filepath.FromSlash("/tmp/cache.json")
	if filepath.IsAbs(abs) {
		if diff := cmp.Diff(abs, c.Path(abs)); diff != "" {
			t.Errorf("diff(-want +got): %s", diff)
		}
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	got, err := FindConfigFile("testdata/find/nested")
	if err != nil {
		t.Fatalf("FindConfigFile() error = %v", err)
	}

	want, err := filepath.Abs("testdata/find/.uibindgen.yml")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
}
