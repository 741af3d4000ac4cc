package rules

import (
	"regexp"
	"testing"
)

func TestRuleFirst(t *testing.T) {
	r := MustCompile("status", `Статус:\s*(\d)`)
	if got, ok := r.First("УПД Статус: 1 Счет-фактура"); !ok || got != "1" {
		t.Fatalf("First = (%q, %v), want (\"1\", true)", got, ok)
	}
	if _, ok := r.First("нет статуса"); ok {
		t.Fatal("expected no match")
	}
	if r.Name() != "status" {
		t.Fatalf("Name = %q", r.Name())
	}
}

func TestRuleMatchGroups(t *testing.T) {
	r := MustCompile("inn_kpp", `ИНН/КПП:\s*(\d+)[/\\](\d+)`)
	m := r.Match(`ИНН/КПП: 7701234567\770101001`)
	if len(m) != 2 || m[0] != "7701234567" || m[1] != "770101001" {
		t.Fatalf("Match = %#v", m)
	}
}

func TestFirstOf(t *testing.T) {
	a := MustCompile("a", `A=(\w+)`)
	b := MustCompile("b", `B=(\w+)`)
	if got, ok := FirstOf("B=2 A=1", b, a); !ok || got != "2" {
		t.Fatalf("FirstOf = (%q, %v)", got, ok)
	}
	if got, ok := FirstOf("A=1", b, a); !ok || got != "1" {
		t.Fatalf("FirstOf fallback = (%q, %v)", got, ok)
	}
	if _, ok := FirstOf("none", a, b); ok {
		t.Fatal("expected no match")
	}
}

func TestStrip(t *testing.T) {
	re := regexp.MustCompile(`\(\d+[а-я]?\)`)
	if got := Strip(re, " г. Москва (6а) "); got != "г. Москва" {
		t.Fatalf("Strip = %q", got)
	}
}
