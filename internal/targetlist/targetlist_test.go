package targetlist

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "targets.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadSkipsCommentsAndBlankLines(t *testing.T) {
	path := writeTemp(t, "# header comment\n\n1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa\n\n# trailer\n")
	addrs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(addrs) != 1 || addrs[0] != "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa" {
		t.Errorf("addrs = %v, want single P2PKH address", addrs)
	}
}

func TestLoadStripsInlineCommentsAndWhitespace(t *testing.T) {
	path := writeTemp(t, "  bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq   # segwit  \n")
	addrs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(addrs) != 1 || addrs[0] != "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq" {
		t.Errorf("addrs = %v", addrs)
	}
}

func TestLoadSkipsInvalidPrefixLines(t *testing.T) {
	path := writeTemp(t, "not-an-address\n3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy\n2SomeLegacyTestnetLookingThing\n")
	addrs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(addrs) != 1 || addrs[0] != "3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy" {
		t.Errorf("addrs = %v, want only the P2SH address", addrs)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/targets.txt"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeTemp(t, "")
	addrs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(addrs) != 0 {
		t.Errorf("addrs = %v, want none", addrs)
	}
}
