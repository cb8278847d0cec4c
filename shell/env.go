package shell

import "claudeos/kernel"

// Limits of the environment store. Names and values are truncated to one
// byte less than their limit.
const (
	MaxEnvVars  = 32
	MaxEnvName  = 32
	MaxEnvValue = 128
)

var errEnvFull = &kernel.Error{Module: "shell", Message: "environment full"}

type envVar struct {
	name  string
	value string
}

// Env is the shell environment. Variables keep their insertion order.
type Env struct {
	vars []envVar
}

// NewEnv returns an environment holding the default variables.
func NewEnv() *Env {
	return &Env{
		vars: []envVar{
			{"PATH", "/bin:/usr/bin"},
			{"HOME", "/home/claude"},
			{"USER", "claude"},
			{"SHELL", "/bin/csh"},
		},
	}
}

func truncate(s string, max int) string {
	if len(s) > max-1 {
		return s[:max-1]
	}
	return s
}

// Get returns the value of a variable.
func (e *Env) Get(name string) (string, bool) {
	for _, v := range e.vars {
		if v.name == name {
			return v.value, true
		}
	}
	return "", false
}

// Set updates a variable or adds it if the store has room.
func (e *Env) Set(name, value string) *kernel.Error {
	name, value = truncate(name, MaxEnvName), truncate(value, MaxEnvValue)

	for i := range e.vars {
		if e.vars[i].name == name {
			e.vars[i].value = value
			return nil
		}
	}

	if len(e.vars) >= MaxEnvVars {
		return errEnvFull
	}

	e.vars = append(e.vars, envVar{name, value})
	return nil
}

// Len returns the number of variables.
func (e *Env) Len() int {
	return len(e.vars)
}

// Each calls fn for every variable in insertion order.
func (e *Env) Each(fn func(name, value string)) {
	for _, v := range e.vars {
		fn(v.name, v.value)
	}
}
