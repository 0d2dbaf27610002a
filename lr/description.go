package lr

import (
	"fmt"
	"io"
	"text/template"
)

type stateDescription struct {
	Number    int
	Items     []string
	Shift     []string
	Reduce    []string
	GoTo      []string
	Accept    bool
	Conflicts []Conflict
}

type description struct {
	Terminals []string
	Rules     []string
	States    []*stateDescription
	Conflicts int
}

const descTemplate = `# Conflicts

{{ printConflictSummary .Conflicts }}

# Terminals

{{ range $i, $t := .Terminals -}}
{{ printf "%4v" $i }} {{ $t }}
{{ end }}
# Rules

{{ range $i, $r := .Rules -}}
{{ printf "%4v" $i }} {{ $r }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}

{{ range .Items -}}
{{ . }}
{{ end }}
{{ range .Shift -}}
{{ . }}
{{ end -}}
{{ range .Reduce -}}
{{ . }}
{{ end -}}
{{ range .GoTo -}}
{{ . }}
{{ end -}}
{{ if .Accept -}}
accept on {{ eof }}
{{ end }}
{{- range .Conflicts -}}
{{ . }}
{{ end -}}
{{ end }}`

// Describe writes the rules, the states with their items and actions, and the conflicts of a
// parse table in readable form.
func Describe(w io.Writer, d *Diagram, tab *ParseTable) error {
	desc := &description{
		Conflicts: len(tab.conflicts),
	}
	for _, sym := range d.syms.terminalSymbols() {
		desc.Terminals = append(desc.Terminals, d.syms.toText(sym))
	}
	for _, r := range d.rules {
		desc.Rules = append(desc.Rules, r.String())
	}

	byState := map[int][]Conflict{}
	for _, c := range tab.conflicts {
		switch c := c.(type) {
		case *ShiftReduceConflict:
			byState[c.State] = append(byState[c.State], c)
		case *ReduceReduceConflict:
			byState[c.State] = append(byState[c.State], c)
		}
	}

	for i := 0; i < d.StateCount(); i++ {
		st := d.state(stateNum(i))
		sd := &stateDescription{
			Number:    i,
			Items:     d.Items(i),
			Conflicts: byState[i],
		}
		reduceOn := map[int][]string{}
		var reduceOrder []int
		for _, sym := range d.syms.terminalSymbols() {
			act, ok := tab.readAction(st.num, sym)
			if !ok {
				continue
			}
			switch act.Type {
			case ActionTypeShift:
				sd.Shift = append(sd.Shift, fmt.Sprintf("shift  %4v on %v", act.Target, d.syms.toText(sym)))
			case ActionTypeReduce:
				if _, ok := reduceOn[act.Target]; !ok {
					reduceOrder = append(reduceOrder, act.Target)
				}
				reduceOn[act.Target] = append(reduceOn[act.Target], d.syms.toText(sym))
			case ActionTypeAccept:
				sd.Accept = true
			}
		}
		for _, rule := range reduceOrder {
			sd.Reduce = append(sd.Reduce, fmt.Sprintf("reduce %4v on %v", rule, joinTexts(reduceOn[rule])))
		}
		for _, sym := range d.syms.nonTerminalSymbols() {
			act, ok := tab.readAction(st.num, sym)
			if !ok || act.Type != ActionTypeGoTo {
				continue
			}
			sd.GoTo = append(sd.GoTo, fmt.Sprintf("goto   %4v on %v", act.Target, d.syms.toText(sym)))
		}
		desc.States = append(desc.States, sd)
	}

	fns := template.FuncMap{
		"printConflictSummary": func(count int) string {
			if count == 1 {
				return "1 conflict was detected."
			} else if count > 1 {
				return fmt.Sprintf("%v conflicts were detected.", count)
			}
			return "No conflict was detected."
		},
		"eof": func() string {
			return d.syms.toText(symbolEOF)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(descTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, desc)
}

func joinTexts(texts []string) string {
	s := texts[0]
	for _, t := range texts[1:] {
		s += ", " + t
	}
	return s
}
