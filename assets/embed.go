// assets/embed.go
//
// Embedded game text: guardian prompts, instructions screen, title banner.

package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed guardian.yaml instructions.txt title.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimRight(sc.Text(), " \t\r")
		if strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// GuardianYAML returns the embedded default prompt set.
func GuardianYAML() ([]byte, error) {
	return FS.ReadFile("guardian.yaml")
}

// Instructions returns the how-to-play text, comment lines removed.
func Instructions() ([]string, error) {
	return readLines("instructions.txt")
}

// Title returns the banner art.
func Title() string {
	b, err := FS.ReadFile("title.txt")
	if err != nil {
		return "Riddler"
	}
	return string(b)
}
