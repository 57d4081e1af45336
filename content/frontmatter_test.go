package content

import (
	"bytes"
	"testing"
	"time"
)

func TestExtractFrontMatter(t *testing.T) {
	var (
		tests = []string{
			``,
			`
		+++
		x = 2
		+++`,
			` ++++++ `,
			`  +++
		 x = "+++"
		 +++
		 hello`,
			`---
title: Hi
---
body`,
			`intro
---
not front matter
---
rest`,
		}
		expect = [][]string{
			{``, ``, ``},
			{`toml`, `x = 2`, ``},
			{``, ``, `++++++`},
			{`toml`, `x = "+++"`, `hello`},
			{`yaml`, `title: Hi`, `body`},
			{``, ``, "intro\n---\nnot front matter\n---\nrest"},
		}
	)
	for i := range tests {
		format, fm, r := extractFrontMatter([]byte(tests[i]))
		fm = bytes.TrimSpace(fm)
		r = bytes.TrimSpace(r)
		got := []string{format, string(fm), string(r)}
		if got[0] != expect[i][0] || got[1] != expect[i][1] || got[2] != expect[i][2] {
			t.Errorf("Expected %#v but got %#v", expect[i], got)
		}
	}
}

func TestParseFrontMatter(t *testing.T) {
	attrs, body, err := parseFrontMatter([]byte("+++\ntitle = \"Hello\"\ndate = 2021-03-04\ntags = [\"a\", \"b\"]\n+++\n# Body"))
	if err != nil {
		t.Fatal(err)
	}
	if attrs["title"] != "Hello" {
		t.Errorf("Expected title Hello but got %#v", attrs["title"])
	}
	if string(body) != "# Body" {
		t.Errorf("Expected body %q but got %q", "# Body", body)
	}
	d, err := toTime(attrs["date"])
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC); !d.Equal(want) {
		t.Errorf("Expected date %s but got %s", want, d)
	}

	attrs, _, err = parseFrontMatter([]byte("---\ntitle: Привет\nlang: ru\n---\ntext"))
	if err != nil {
		t.Fatal(err)
	}
	if attrs["title"] != "Привет" || attrs["lang"] != "ru" {
		t.Errorf("Unexpected YAML attributes %#v", attrs)
	}

	_, _, err = parseFrontMatter([]byte("+++\ntitle = \n+++\n"))
	if err == nil {
		t.Error("Expected an error for malformed TOML")
	}
}
