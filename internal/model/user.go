package model

import (
	"fmt"
	"strings"
)

const (
	// MinAge and MaxAge bound the accepted age range, inclusive.
	MinAge = 18
	MaxAge = 60
)

var validGenders = map[string]bool{
	"Male":   true,
	"Female": true,
	"Other":  true,
}

// UserInfo is the self-reported information attached to a screening request.
type UserInfo struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// Validate checks the user info against the intake rules: non-empty name,
// age within [MinAge, MaxAge], and a recognized gender value.
func (u UserInfo) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if u.Age < MinAge || u.Age > MaxAge {
		return fmt.Errorf("age must be between %d and %d, got %d", MinAge, MaxAge, u.Age)
	}
	if !validGenders[u.Gender] {
		return fmt.Errorf("gender must be one of Male, Female, Other, got %q", u.Gender)
	}
	return nil
}
