package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPairKeyFor(t *testing.T) {
	if PairKeyFor("a", "b") != PairKeyFor("b", "a") {
		t.Error("pair key not symmetric")
	}
	if PairKeyFor("a", "b") != "a:b" {
		t.Errorf("pair key = %q, want a:b", PairKeyFor("a", "b"))
	}
}

func TestPasswordHashing(t *testing.T) {
	var user User
	if err := user.SetPassword("correct horse"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if user.Password == "correct horse" {
		t.Fatal("password stored in plain text")
	}
	if !user.CheckPassword("correct horse") {
		t.Error("correct password rejected")
	}
	if user.CheckPassword("wrong") {
		t.Error("wrong password accepted")
	}
}

func TestUserJSONOmitsPassword(t *testing.T) {
	user := User{Email: "alice@campus.edu"}
	if err := user.SetPassword("secret-value"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	encoded, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	if strings.Contains(string(encoded), "secret") || strings.Contains(string(encoded), user.Password) {
		t.Errorf("password leaked in JSON: %s", encoded)
	}
}
