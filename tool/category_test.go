package tool

import "testing"

func TestCategoryOf_CaseAndSeparatorInsensitive(t *testing.T) {
	cases := map[string]Category{
		"read_file":          CategoryFileOperations,
		"Read-File":          CategoryFileOperations,
		"SHELL":              CategoryShellCommands,
		"search-documents-for": CategorySearchTools,
		"apply_patch":        CategoryCodeModification,
		"Update-Plan":        CategoryCommunication,
		"totally_unknown":    CategoryOther,
	}
	for name, want := range cases {
		if got := CategoryOf(name); got != want {
			t.Errorf("CategoryOf(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestAllCategories_IncludesOther(t *testing.T) {
	cats := AllCategories()
	found := false
	for _, c := range cats {
		if c == CategoryOther {
			found = true
		}
	}
	if !found {
		t.Fatal("expected CategoryOther in AllCategories")
	}
}
