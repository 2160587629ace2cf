package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"

	"spl-token-creator/internal/solana"
)

const (
	approveYes = "Approve"
	approveNo  = "Reject"
)

// selectRunner is a variable so tests can answer prompts.
var selectRunner = func(sel promptui.Select) (int, string, error) {
	return sel.Run()
}

// promptApprover asks on the terminal before each signature.
type promptApprover struct{}

func newPromptApprover() solana.Approver {
	return promptApprover{}
}

func (promptApprover) Approve(ctx context.Context, req solana.ApprovalRequest) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	sel := promptui.Select{
		Label: fmt.Sprintf("Sign %s (%d instructions) as %s?", req.Label, req.Instructions, solana.MaskShort(req.Signer)),
		Items: []string{approveYes, approveNo},
	}
	_, choice, err := selectRunner(sel)
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return false, nil
		}
		return false, err
	}
	return choice == approveYes, nil
}
