package prevent

import (
	"regexp"
	"strings"
)

// cautionCommands are substrings that mark a shell command as maximally
// destructive in AssessActionRisk (spec §4.8: "CAUTION_COMMANDS list"). They
// do not block on their own; only fatalCommands add a blocker.
var cautionCommands = []string{
	"rm -rf /",
	"rm -rf ~",
	"rm -rf *",
	":(){ :|:& };:",
	"mkfs",
	"dd if=/dev/zero",
	"> /dev/sda",
	"chmod -R 777 /",
}

// fatalCommands always block regardless of risk score (spec §4.8: "a
// blocker is created when an argument pattern matches a known-fatal
// command").
var fatalCommands = []string{
	"rm -rf /",
	":(){ :|:& };:",
}

func commandArg(args map[string]any) string {
	for _, key := range []string{"command", "cmd"} {
		if v, ok := args[key].(string); ok {
			return v
		}
	}
	return ""
}

func containsAny(haystack string, needles []string) bool {
	lower := strings.ToLower(haystack)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// validateRegexArgs checks that any argument conventionally holding a
// regex (pattern, regex) compiles, so a malformed expression is caught
// before being handed to a tool (spec §4.8: "regex syntax for known tools
// such as search_files").
func validateRegexArgs(args map[string]any) []string {
	var warnings []string
	for _, key := range []string{"pattern", "regex"} {
		v, ok := args[key].(string)
		if !ok || v == "" {
			continue
		}
		if _, err := regexp.Compile(v); err != nil {
			warnings = append(warnings, "argument "+key+" is not a valid regular expression: "+err.Error())
		}
	}
	return warnings
}

// checkPrerequisites verifies tool-specific preconditions the host's ctx
// can answer (spec §4.8: "read_file requires the target path to exist in
// ctx.available_files").
func checkPrerequisites(tool string, args map[string]any, ctx ExecutionContext) []string {
	var blockers []string
	switch tool {
	case "read_file", "view", "str_replace_editor":
		path, _ := args["path"].(string)
		if path == "" {
			break
		}
		if !contains(ctx.AvailableFiles, path) {
			blockers = append(blockers, "path "+path+" is not among the known available files")
		}
	}
	return blockers
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
