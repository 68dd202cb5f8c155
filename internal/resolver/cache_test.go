package resolver

import (
	"testing"
)

func TestFileCache_ParseOnce(t *testing.T) {
	cache := newFileCache()

	first, err := cache.file("src/App.js", `const [count, setCount] = useState(0);`)
	if err != nil {
		t.Fatalf("file() error = %v", err)
	}
	// Content deliberately differs: a second parse would be visible.
	second, err := cache.file("src/App.js", `const other = 1;`)
	if err != nil {
		t.Fatalf("file() error = %v", err)
	}
	if first != second {
		t.Error("file() must return the cached parse for a known source")
	}
}

func TestFileCache_ParseFailureCached(t *testing.T) {
	cache := newFileCache()

	_, firstErr := cache.file("src/Broken.js", `const [count = useState(`)
	if firstErr == nil {
		t.Fatal("expected parse failure")
	}
	_, secondErr := cache.file("src/Broken.js", `const fine = 1;`)
	if secondErr == nil {
		t.Error("parse failures must be cached per source")
	}
}

func TestFileCache_PoolCollectedOnce(t *testing.T) {
	cache := newFileCache()

	file, err := cache.file("src/App.js", `const countState = useState(0);
const count = countState[0];
`)
	if err != nil {
		t.Fatalf("file() error = %v", err)
	}

	first := cache.pool("src/App.js", file)
	second := cache.pool("src/App.js", file)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("pool sizes = %d, %d; want 2, 2", len(first), len(second))
	}
	if first[0] != second[0] {
		t.Error("pool() must return the cached slice contents")
	}
}

func TestFileCache_TakeConfirmedConsumes(t *testing.T) {
	cache := newFileCache()

	file, err := cache.file("src/App.js", `const [count, setCount] = useState(0);
const [flag, setFlag] = useState(true);
`)
	if err != nil {
		t.Fatalf("file() error = %v", err)
	}

	confirmed, rest := cache.takeConfirmed("src/App.js", file, 1)
	if confirmed == nil {
		t.Fatal("expected a confirmed declarator at line 1")
	}
	if len(rest) != 1 {
		t.Fatalf("remaining pool has %d entries, want 1", len(rest))
	}

	// The same line cannot be claimed twice.
	again, _ := cache.takeConfirmed("src/App.js", file, 1)
	if again != nil {
		t.Error("a consumed declarator must not be returned again")
	}
}

func TestFileCache_TakeConfirmedIgnoresUnconfirmed(t *testing.T) {
	cache := newFileCache()

	file, err := cache.file("src/App.js", `const count = countState[0];`)
	if err != nil {
		t.Fatalf("file() error = %v", err)
	}

	confirmed, rest := cache.takeConfirmed("src/App.js", file, 1)
	if confirmed != nil {
		t.Error("a member-access candidate is not a confirmed hook declaration")
	}
	if len(rest) != 1 {
		t.Errorf("pool must keep unconfirmed candidates, got %d", len(rest))
	}
}
