package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		argv []string
		want string
	}{
		{"empty", nil, ""},
		{"only assignments", []string{"FOO=bar", "BAZ=1"}, ""},
		{"plain binary", []string{"pytest", "tests/"}, "pytest"},
		{"binary with path", []string{"/usr/local/bin/pytest", "-x"}, "pytest"},
		{"assignments then binary", []string{"DD_ENV=ci", "pytest"}, "pytest"},
		{"python script", []string{"python", "manage.py", "test"}, "manage"},
		{"versioned python", []string{"python3.11", "manage.py"}, "manage"},
		{"python module", []string{"python3", "-m", "pytest", "tests/"}, "pytest"},
		{"module flag last", []string{"python", "-m"}, "python"},
		{"inline script", []string{"python", "-c", "print(1)"}, "python"},
		{"interpreter flags skipped", []string{"python3", "-u", "-B", "run_tests.py"}, "run_tests"},
		{"only flags after interpreter", []string{"python3", "-u"}, "python3"},
		{"node script", []string{"node", "server.js"}, "server"},
		{"shell script", []string{"bash", "scripts/run.sh"}, "run"},
		{"go test", []string{"go", "test", "./..."}, "go"},
		{"path is not assignment", []string{"/opt/a=b/tool"}, "tool"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Detect(c.argv))
		})
	}
}

func TestDetectNeverPanics(t *testing.T) {
	hostile := [][]string{
		{""},
		{"=", "="},
		{"-m"},
		{"python", ""},
		{"FOO=", "", "-"},
	}
	for _, argv := range hostile {
		_ = Detect(argv)
	}
}
