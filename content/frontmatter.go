package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Front matter formats.
const (
	formatNone = ""
	formatTOML = "toml"
	formatYAML = "yaml"
)

var (
	// tomlRegexp splits out TOML front matter fenced by +++ lines.
	tomlRegexp = regexp.MustCompile(`(?m)^\s*\+\+\+\s*$`)
	// yamlRegexp splits out YAML front matter fenced by --- lines.
	yamlRegexp = regexp.MustCompile(`(?m)^\s*---\s*$`)
)

// extractFrontMatter splits the front matter and content, reporting the front matter format.
// Front matter must be the first thing in the file.
func extractFrontMatter(x []byte) (format string, fm, r []byte) {
	for _, f := range []struct {
		format string
		re     *regexp.Regexp
	}{
		{formatTOML, tomlRegexp},
		{formatYAML, yamlRegexp},
	} {
		subs := f.re.Split(string(x), 3)
		if len(subs) != 3 {
			continue
		}
		if s := strings.TrimSpace(subs[0]); len(s) > 0 {
			continue
		}
		return f.format, []byte(strings.TrimSpace(subs[1])), []byte(strings.TrimSpace(subs[2]))
	}
	return formatNone, nil, x
}

// parseFrontMatter splits x and unmarshals its front matter into a map.
func parseFrontMatter(x []byte) (map[string]any, []byte, error) {
	format, fm, body := extractFrontMatter(x)
	attrs := make(map[string]any)
	if len(fm) == 0 {
		return attrs, body, nil
	}
	var err error
	switch format {
	case formatTOML:
		err = toml.Unmarshal(fm, &attrs)
	case formatYAML:
		err = yaml.Unmarshal(fm, &attrs)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("parseFrontMatter: %s: %w", format, err)
	}
	if attrs == nil {
		attrs = make(map[string]any)
	}
	return attrs, body, nil
}
