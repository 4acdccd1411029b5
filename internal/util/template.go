package util

import (
	"bytes"
	"os"
	"strings"
	"text/template"
	"time"
)

// PathData is the data available to report path templates.
type PathData struct {
	PID     int
	Date    string
	Session string
}

// NewPathData returns the template data for the current process.
func NewPathData(sessionID string, now time.Time) PathData {
	return PathData{
		PID:     os.Getpid(),
		Date:    now.UTC().Format("20060102"),
		Session: sessionID,
	}
}

// RenderPath expands {{.PID}}, {{.Date}} and {{.Session}} in a report path.
// The short helper truncates a value to eight characters, as in
// {{short .Session}}.
// This lives in internal to avoid committing to public API stability prematurely.
func RenderPath(path string, data PathData) (string, error) {
	if !strings.Contains(path, "{{") { // fast path: no template markers
		return path, nil
	}

	tmpl, err := template.New("path").Option("missingkey=error").Funcs(template.FuncMap{
		"short": func(s string) string {
			if len(s) > 8 {
				return s[:8]
			}
			return s
		},
	}).Parse(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
