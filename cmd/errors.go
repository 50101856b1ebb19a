package cmd

import (
	"fmt"

	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/gnames/gn"
)

func invalidFlagError(flag, value, hint string) error {
	return &gn.Error{
		Code: errcode.InvalidArgumentError,
		Msg:  "Invalid value <em>%s</em> for %s, %s",
		Vars: []any{value, flag, hint},
		Err:  fmt.Errorf("invalid %s: %q", flag, value),
	}
}
