package item

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-stash/internal/storage"
	"github.com/pixil98/go-testutil"
)

func TestNewCatalog_SetsIds(t *testing.T) {
	c := NewCatalog(map[string]*Kind{
		"arrow": {Name: "Arrow", MaxStack: 20},
	})

	k := c.Get("arrow")
	if k == nil {
		t.Fatal("expected arrow kind")
	}
	testutil.AssertEqual(t, "id", k.Id, storage.Identifier("arrow"))
	if c.Get("bolt") != nil {
		t.Error("expected nil for unknown kind")
	}
}

func TestCatalog_Save(t *testing.T) {
	c := NewCatalog(nil)

	err := c.Save("bolt", &Kind{Name: "Bolt", MaxStack: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "count", len(c.GetAll()), 1)
	testutil.AssertEqual(t, "id", c.Get("bolt").Id, storage.Identifier("bolt"))

	err = c.Save("broken", &Kind{Name: "Broken"})
	testutil.AssertErrorContains(t, err, "validating kind \"broken\"")
	err = c.Save("nil", nil)
	testutil.AssertErrorContains(t, err, "is nil")
	testutil.AssertEqual(t, "count after failures", len(c.GetAll()), 1)
}

func TestCatalog_Spawn(t *testing.T) {
	c := NewCatalog(map[string]*Kind{
		"arrow": {Name: "Arrow", MaxStack: 20},
	})

	it, err := c.Spawn("arrow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "kind", it.Kind(), *c.Get("arrow"))

	_, err = c.Spawn("bolt")
	testutil.AssertErrorContains(t, err, `kind "bolt" not found`)
}

func TestLoadCatalogYAML(t *testing.T) {
	tests := map[string]struct {
		content  string
		expErr   string
		expCount int
	}{
		"valid bundle": {
			content: `kinds:
  millbrook-arrow:
    name: Iron Arrow
    max_stack: 20
  millbrook-potion:
    name: Healing Potion
    max_stack: 5
    description: Smells of mint.
`,
			expCount: 2,
		},
		"invalid kind": {
			content: `kinds:
  broken:
    name: Broken
`,
			expErr: "max_stack must be at least 1",
		},
		"empty kind": {
			content: "kinds:\n  hollow:\n",
			expErr:  `kind "hollow" is empty`,
		},
		"malformed yaml": {
			content: "kinds: [",
			expErr:  "unmarshalling catalog",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test file: %v", err)
			}

			c, err := LoadCatalogYAML(path)

			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "kind count", len(c.GetAll()), tt.expCount)
		})
	}
}

func TestLoadCatalogYAML_MissingFile(t *testing.T) {
	_, err := LoadCatalogYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	testutil.AssertErrorContains(t, err, "reading file")
}
