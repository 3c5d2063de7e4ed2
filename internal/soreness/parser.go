// Package soreness turns free-text soreness notes into severities per muscle group.
package soreness

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Report maps a muscle group to its severity (0 none .. 5 worst).
type Report map[string]int

// Severity returns the severity recorded for group, 0 when absent.
func (r Report) Severity(group string) int {
	return r[group]
}

// Max returns the highest severity among groups.
func (r Report) Max(groups ...string) int {
	worst := 0
	for _, g := range groups {
		if s := r[g]; s > worst {
			worst = s
		}
	}
	return worst
}

// Groups returns the reported groups in sorted order.
func (r Report) Groups() []string {
	out := make([]string, 0, len(r))
	for g := range r {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

type tokenKind int

const (
	tokWord tokenKind = iota
	tokNumber
	tokGroup
)

type token struct {
	kind  tokenKind
	text  string
	group string
	num   int
}

// Parser extracts a Report using a fixed rule table. Safe for concurrent use.
type Parser struct {
	rules   Rules
	phrases []phrase
}

type phrase struct {
	words []string
	group string
}

var defaultParser = NewParser(DefaultRules())

// Parse uses the default rules.
func Parse(text string) Report {
	return defaultParser.Parse(text)
}

// NewParser builds a parser, ordering phrases longest first so "lower back"
// wins over "back".
func NewParser(rules Rules) *Parser {
	if rules.Window <= 0 {
		rules.Window = 3
	}
	if rules.MaxRating <= 0 {
		rules.MaxRating = 10
	}
	var phrases []phrase
	for group, syns := range rules.Synonyms {
		for _, s := range syns {
			words := tokenize(s)
			if len(words) == 0 {
				continue
			}
			phrases = append(phrases, phrase{words: words, group: group})
		}
	}
	sort.SliceStable(phrases, func(i, j int) bool {
		if len(phrases[i].words) != len(phrases[j].words) {
			return len(phrases[i].words) > len(phrases[j].words)
		}
		if phrases[i].group != phrases[j].group {
			return phrases[i].group < phrases[j].group
		}
		return strings.Join(phrases[i].words, " ") < strings.Join(phrases[j].words, " ")
	})
	return &Parser{rules: rules, phrases: phrases}
}

// Parse never fails; unrecognised text yields an empty or partial report.
// Repeated mentions of a group keep the highest severity. A number wins over
// a qualifier unless the qualifier sits strictly closer to the group.
func (p *Parser) Parse(text string) Report {
	report := Report{}
	toks := p.classify(tokenize(text))

	for i, t := range toks {
		if t.kind != tokGroup {
			continue
		}
		sev, dist, ok := p.numberNear(toks, i)
		if qsev, qdist, qok := p.qualifierNear(toks, i); qok && (!ok || qdist < dist) {
			sev, ok = qsev, true
		}
		if !ok {
			continue
		}
		if cur, seen := report[t.group]; !seen || sev > cur {
			report[t.group] = sev
		}
	}
	return report
}

// classify folds multi-word synonyms into single group tokens.
func (p *Parser) classify(words []string) []token {
	var out []token
	for i := 0; i < len(words); {
		if ph, ok := p.match(words[i:]); ok {
			out = append(out, token{kind: tokGroup, text: strings.Join(ph.words, " "), group: ph.group})
			i += len(ph.words)
			continue
		}
		w := words[i]
		if n, err := strconv.Atoi(w); err == nil {
			out = append(out, token{kind: tokNumber, text: w, num: n})
		} else {
			out = append(out, token{kind: tokWord, text: w})
		}
		i++
	}
	return out
}

func (p *Parser) match(words []string) (phrase, bool) {
	for _, ph := range p.phrases {
		if len(ph.words) > len(words) {
			continue
		}
		ok := true
		for k, w := range ph.words {
			if words[k] != w {
				ok = false
				break
			}
		}
		if ok {
			return ph, true
		}
	}
	return phrase{}, false
}

// numberNear looks for the closest rating on either side of toks[i] that is
// not separated from it by another group. Trailing numbers win ties.
func (p *Parser) numberNear(toks []token, i int) (sev, dist int, ok bool) {
	for d := 1; d <= p.rules.Window; d++ {
		if n, ok := p.ratingAt(toks, i, i+d, 1); ok {
			return clamp(n, 0, MaxSeverity), d, true
		}
		if n, ok := p.ratingAt(toks, i, i-d, -1); ok {
			return clamp(n, 0, MaxSeverity), d, true
		}
	}
	return 0, 0, false
}

func (p *Parser) ratingAt(toks []token, from, at, step int) (int, bool) {
	if at < 0 || at >= len(toks) || toks[at].kind != tokNumber {
		return 0, false
	}
	for k := from + step; k != at; k += step {
		if toks[k].kind == tokGroup {
			return 0, false
		}
	}
	if !p.isRating(toks, at) {
		return 0, false
	}
	return toks[at].num, true
}

// isRating rejects loads, counts and set schemes such as "100 kg" or "5x5".
func (p *Parser) isRating(toks []token, at int) bool {
	if toks[at].num > p.rules.MaxRating {
		return false
	}
	if at+1 < len(toks) && toks[at+1].kind == tokWord && contains(p.rules.Units, toks[at+1].text) {
		return false
	}
	if at > 0 && toks[at-1].kind == tokWord && toks[at-1].text == "x" {
		return false
	}
	return true
}

// qualifierNear reads qualifier words within the window of toks[i] and
// returns the severity plus the distance of the nearest qualifier. The scan
// stops at another group unless only connectors sit between the two.
func (p *Parser) qualifierNear(toks []token, i int) (sev, dist int, ok bool) {
	base, shift := 0, 0
	for _, step := range []int{1, -1} {
		linked := true
		for d := 1; d <= p.rules.Window; d++ {
			k := i + step*d
			if k < 0 || k >= len(toks) {
				break
			}
			t := toks[k]
			if t.kind == tokGroup {
				if !linked {
					break
				}
				continue
			}
			if t.kind != tokWord || !contains(p.rules.Connectors, t.text) {
				linked = false
			}
			if t.kind != tokWord {
				continue
			}
			if v, found := p.rules.Qualifiers[t.text]; found {
				if v > base {
					base = v
				}
				if dist == 0 || d < dist {
					dist = d
				}
			}
			if contains(p.rules.Softeners, t.text) {
				shift--
			}
			if contains(p.rules.Intensifier, t.text) {
				shift++
			}
		}
	}
	if base == 0 {
		return 0, 0, false
	}
	return clamp(base+clamp(shift, -1, 1), 1, MaxSeverity), dist, true
}

// tokenize lowercases and splits on anything that is not a letter or digit,
// and on letter/digit boundaries.
func tokenize(text string) []string {
	var words []string
	var cur []rune
	var curDigit bool
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range strings.ToLower(text) {
		isDigit := unicode.IsDigit(r)
		if !isDigit && !unicode.IsLetter(r) {
			flush()
			continue
		}
		if len(cur) > 0 && isDigit != curDigit {
			flush()
		}
		curDigit = isDigit
		cur = append(cur, r)
	}
	flush()
	return words
}

func contains(list []string, w string) bool {
	for _, s := range list {
		if s == w {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
