package main

import (
	"github.com/amonks/immaculater/internal/validation"
	"github.com/amonks/immaculater/viewfilter"
)

// viewFlag is a pflag.Value that accepts only registered view aliases.
type viewFlag struct {
	alias string
}

func (f *viewFlag) String() string { return f.alias }

func (f *viewFlag) Set(value string) error {
	if err := validation.OneOf(viewfilter.ErrUnknownView, "view", value, viewfilter.Aliases()); err != nil {
		return err
	}
	f.alias = value
	return nil
}

func (f *viewFlag) Type() string { return "view" }
