// Package payloads serves the static lookup tables bundled with the binary:
// injection payloads, default credentials and reverse shell one-liners.
package payloads

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Category groups payloads of one technique.
type Category struct {
	Category string   `yaml:"category"`
	Payloads []string `yaml:"payloads"`
}

type Library struct {
	SQLi []Category `yaml:"sqli"`
	XSS  []Category `yaml:"xss"`
	LFI  []Category `yaml:"lfi"`
}

type Cred struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type serviceCreds struct {
	Service string `yaml:"service"`
	Creds   []Cred `yaml:"creds"`
}

type shellTemplate struct {
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
}

// Shell is one rendered reverse shell.
type Shell struct {
	Name    string
	Command string
}

func load(name string, v interface{}) error {
	data, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Load returns the SQLi, XSS and LFI payload tables.
func Load() (*Library, error) {
	var lib Library
	if err := load("payloads.yaml", &lib); err != nil {
		return nil, err
	}
	return &lib, nil
}

// Kind returns the categories for "sqli", "xss" or "lfi".
func (l *Library) Kind(kind string) ([]Category, error) {
	switch strings.ToLower(kind) {
	case "sqli":
		return l.SQLi, nil
	case "xss":
		return l.XSS, nil
	case "lfi":
		return l.LFI, nil
	default:
		return nil, fmt.Errorf("unknown payload kind %q (available: sqli, xss, lfi)", kind)
	}
}

// DefaultCreds looks up default logins for a service, case-insensitively.
func DefaultCreds(service string) ([]Cred, error) {
	var table []serviceCreds
	if err := load("default_creds.yaml", &table); err != nil {
		return nil, err
	}

	want := strings.ToLower(strings.TrimSpace(service))
	var names []string
	for _, sc := range table {
		if sc.Service == want {
			return sc.Creds, nil
		}
		names = append(names, sc.Service)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unknown service %q (available: %s)", service, strings.Join(names, ", "))
}

// ReverseShell renders the shell of the given kind, or every shell when
// kind is "all" or empty.
func ReverseShell(lhost string, lport int, kind string) ([]Shell, error) {
	if lhost == "" {
		return nil, fmt.Errorf("lhost is required")
	}
	if lport <= 0 || lport > 65535 {
		return nil, fmt.Errorf("invalid lport %d", lport)
	}

	var table []shellTemplate
	if err := load("shells.yaml", &table); err != nil {
		return nil, err
	}

	kind = strings.ToLower(kind)
	data := struct {
		LHost string
		LPort int
	}{lhost, lport}

	var shells []Shell
	var names []string
	for _, st := range table {
		names = append(names, st.Name)
		if kind != "" && kind != "all" && st.Name != kind {
			continue
		}
		tmpl, err := template.New(st.Name).Funcs(sprig.TxtFuncMap()).Parse(st.Template)
		if err != nil {
			return nil, fmt.Errorf("parse shell %s: %w", st.Name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("render shell %s: %w", st.Name, err)
		}
		shells = append(shells, Shell{Name: st.Name, Command: buf.String()})
	}

	if len(shells) == 0 {
		return nil, fmt.Errorf("unknown shell type %q (available: all, %s)", kind, strings.Join(names, ", "))
	}
	return shells, nil
}

// ParseShellSpec splits LHOST[:LPORT[:TYPE]]. LPORT defaults to 4444 and
// TYPE to "all".
func ParseShellSpec(spec string) (lhost string, lport int, kind string, err error) {
	parts := strings.Split(spec, ":")
	lhost, lport, kind = parts[0], 4444, "all"
	if lhost == "" {
		return "", 0, "", fmt.Errorf("missing LHOST in %q", spec)
	}
	if len(parts) > 1 && parts[1] != "" {
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return "", 0, "", fmt.Errorf("invalid LPORT %q: %w", parts[1], err)
		}
		lport = n
	}
	if len(parts) > 2 && parts[2] != "" {
		kind = parts[2]
	}
	return lhost, lport, kind, nil
}
