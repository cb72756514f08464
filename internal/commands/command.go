package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/tasklist/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeUndo   Type = "undo"
	TypeDelete Type = "delete"
	TypeFilter Type = "filter"
	TypeTheme  Type = "theme"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs carries the new task. Priority is empty when the command did not
// name one.
type AddArgs struct {
	Content  string
	Priority model.Priority
}

type RefArgs struct {
	Ref string
}

type FilterMode string

const (
	FilterToggle FilterMode = "toggle"
	FilterOn     FilterMode = "on"
	FilterOff    FilterMode = "off"
)

type FilterArgs struct {
	Mode FilterMode
}

// ThemeArgs names the theme to switch to; empty toggles.
type ThemeArgs struct {
	Name string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Ref    *RefArgs
	Filter *FilterArgs
	Theme  *ThemeArgs
}

var aliases = map[string]Type{
	"a":        TypeAdd,
	"complete": TypeDone,
	"check":    TypeDone,
	"uncheck":  TypeUndo,
	"reopen":   TypeUndo,
	"rm":       TypeDelete,
	"del":      TypeDelete,
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]
	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}

	switch typ {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeUndo, TypeDelete:
		return parseRef(input, typ, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeTheme:
		return parseTheme(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	var priority model.Priority
	if len(args) > 1 {
		if p, ok := priorityWord(args[0]); ok {
			priority = p
			args = args[1:]
		}
	}
	content := strings.TrimSpace(strings.Join(args, " "))
	if content == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task content"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Content: content, Priority: priority}}, nil
}

// priorityWord only accepts full priority names so that short words at the
// start of the content are not taken for a priority.
func priorityWord(word string) (model.Priority, bool) {
	switch strings.ToLower(word) {
	case "high", "medium", "low", "高", "中", "低":
		p, err := model.ParsePriority(word)
		return p, err == nil
	default:
		return "", false
	}
}

func parseRef(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires exactly one task reference", typ)}
	}
	return Command{Type: typ, Raw: raw, Ref: &RefArgs{Ref: args[0]}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Mode: FilterToggle}}, nil
	}
	if len(args) > 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter takes at most one argument"}
	}
	switch strings.ToLower(args[0]) {
	case "on", "incomplete", "open":
		return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Mode: FilterOn}}, nil
	case "off", "all":
		return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Mode: FilterOff}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("filter expects on or off, got %q", args[0])}
	}
}

func parseTheme(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{}}, nil
	}
	name := strings.ToLower(args[0])
	if len(args) > 1 || (name != "light" && name != "dark") {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "theme expects light or dark"}
	}
	return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{Name: name}}, nil
}
