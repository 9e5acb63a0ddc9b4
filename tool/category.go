// Package tool classifies tool names into the engine's fixed category set
// (spec §4.7), the same Kind/MutatorKinds/SafeKinds map idiom the teacher
// uses in internal/domain/tool/tool.go to drive permission decisions —
// repurposed here to drive per-category default thresholds instead.
package tool

import "strings"

// Category is one of the engine's fixed tool categories.
type Category string

const (
	CategoryFileOperations  Category = "file_operations"
	CategoryShellCommands   Category = "shell_commands"
	CategorySearchTools     Category = "search_tools"
	CategoryCodeModification Category = "code_modification"
	CategoryCommunication   Category = "communication"
	CategoryOther           Category = "other"
)

// categoryMembers is the fixed per-category tool-name set from spec §4.7.
// Membership is checked case-insensitively with '-'/'_' treated as
// equivalent (normalizeName below), so the literal keys here only need one
// canonical spelling per tool.
var categoryMembers = map[Category]map[string]bool{
	CategoryFileOperations: set("read_file", "write_file", "list_files", "view", "str_replace_editor", "text_editor"),
	CategoryShellCommands:  set("shell", "execute_command", "bash"),
	CategorySearchTools:    set("grep", "search", "find", "search_documents_for"),
	CategoryCodeModification: set("apply_patch", "edit_file", "insert", "replace"),
	CategoryCommunication:  set("ask_followup_question", "attempt_completion", "request_human_help", "update_plan"),
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[normalizeName(n)] = true
	}
	return m
}

// normalizeName lowercases a tool name and collapses '-' to '_' so
// "Search-Files" and "search_files" classify identically (spec §4.7,
// property 8 in spec §8).
func normalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", "_")
}

// CategoryOf returns the fixed category a tool name belongs to, or
// CategoryOther if it matches none (spec §4.7: "other (empty)").
func CategoryOf(name string) Category {
	n := normalizeName(name)
	for cat, members := range categoryMembers {
		if members[n] {
			return cat
		}
	}
	return CategoryOther
}

// AllCategories lists every fixed category, in spec declaration order.
func AllCategories() []Category {
	return []Category{
		CategoryFileOperations,
		CategoryShellCommands,
		CategorySearchTools,
		CategoryCodeModification,
		CategoryCommunication,
		CategoryOther,
	}
}
