package scenarios

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestScenarioFiles(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("no scenario files found")
	}
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			t.Fatalf("load %s: %v", f, err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestLoadRejectsEmptyScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, []byte("name: empty\nevents: []\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for scenario without events")
	}
}

func TestEventDefRejectsUnknownKind(t *testing.T) {
	def := EventDef{Kind: "histogram", Name: "x", Host: "h"}
	if _, _, err := def.ToModel(time.Now()); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
