package completion

import (
	"fmt"
	"strings"
)

// Script renders the completion script for the given shell. Supported
// shells are bash, zsh and fish.
func Script(shell string) (string, error) {
	switch shell {
	case "bash":
		return bashScript(), nil
	case "zsh":
		return zshScript(), nil
	case "fish":
		return fishScript(), nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", shell)
	}
}

func flagWords() []string {
	var words []string
	for _, f := range GetFlags() {
		words = append(words, "--"+f.Name)
	}
	return words
}

func bashScript() string {
	return fmt.Sprintf(`# bash completion for gcommit
_gcommit() {
    local cur
    cur="${COMP_WORDS[COMP_CWORD]}"
    if [[ "$cur" == -* ]]; then
        COMPREPLY=($(compgen -W "%s" -- "$cur"))
    fi
}
complete -F _gcommit gcommit
`, strings.Join(flagWords(), " "))
}

func zshScript() string {
	var sb strings.Builder
	sb.WriteString("#compdef gcommit\n\n_gcommit() {\n    _arguments \\\n")
	for _, f := range GetFlags() {
		if f.HasValue {
			fmt.Fprintf(&sb, "        '--%s[%s]:%s:' \\\n", f.Name, f.Description, f.ValueHint)
		} else {
			fmt.Fprintf(&sb, "        '--%s[%s]' \\\n", f.Name, f.Description)
		}
	}
	sb.WriteString("        '*:hint:'\n}\n\ncompdef _gcommit gcommit\n")
	return sb.String()
}

func fishScript() string {
	var sb strings.Builder
	sb.WriteString("# fish completion for gcommit\n")
	for _, f := range GetFlags() {
		if f.HasValue {
			fmt.Fprintf(&sb, "complete -c gcommit -l %s -r -d '%s'\n", f.Name, f.Description)
		} else {
			fmt.Fprintf(&sb, "complete -c gcommit -l %s -d '%s'\n", f.Name, f.Description)
		}
	}
	return sb.String()
}
