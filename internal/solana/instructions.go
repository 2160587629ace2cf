package solana

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
)

// MintAccountSize is the size of an SPL mint account.
const MintAccountSize = token.MintAccountSize

// CreateMintInstructions allocates a mint account and initializes it with
// authority as both mint and freeze authority.
func CreateMintInstructions(payer, mint common.PublicKey, decimals uint8, rentLamports uint64) []types.Instruction {
	return []types.Instruction{
		system.CreateAccount(system.CreateAccountParam{
			From:     payer,
			New:      mint,
			Owner:    common.TokenProgramID,
			Lamports: rentLamports,
			Space:    token.MintAccountSize,
		}),
		token.InitializeMint(token.InitializeMintParam{
			Decimals:   decimals,
			Mint:       mint,
			MintAuth:   payer,
			FreezeAuth: &payer,
		}),
	}
}

// CreateAssociatedAccountInstruction creates owner's associated token account for mint.
func CreateAssociatedAccountInstruction(payer, owner, mint, ata common.PublicKey) types.Instruction {
	return associated_token_account.CreateAssociatedTokenAccount(
		associated_token_account.CreateAssociatedTokenAccountParam{
			Funder:                 payer,
			Owner:                  owner,
			Mint:                   mint,
			AssociatedTokenAccount: ata,
		},
	)
}

// MintToInstruction mints amount base units into dest.
func MintToInstruction(mint, dest, authority common.PublicKey, amount uint64) types.Instruction {
	return token.MintTo(token.MintToParam{
		Mint:   mint,
		To:     dest,
		Auth:   authority,
		Amount: amount,
	})
}

// MetadataParams are the on-chain metadata fields.
type MetadataParams struct {
	Name   string
	Symbol string
	URI    string
}

// CreateMetadataInstruction creates the mutable metadata account for mint.
func CreateMetadataInstruction(payer, mint, metadata common.PublicKey, p MetadataParams) types.Instruction {
	return token_metadata.CreateMetadataAccountV3(token_metadata.CreateMetadataAccountV3Param{
		Metadata:                metadata,
		Mint:                    mint,
		MintAuthority:           payer,
		UpdateAuthority:         payer,
		Payer:                   payer,
		UpdateAuthorityIsSigner: true,
		IsMutable:               true,
		Data: token_metadata.DataV2{
			Name:                 p.Name,
			Symbol:               p.Symbol,
			Uri:                  p.URI,
			SellerFeeBasisPoints: 0,
		},
	})
}

// RevokeInstructions clears the requested authorities of mint.
// Freeze authority is revoked before mint authority.
func RevokeInstructions(mint, current common.PublicKey, freeze, mintAuth bool) []types.Instruction {
	var ins []types.Instruction
	if freeze {
		ins = append(ins, setAuthorityNone(mint, current, token.AuthorityTypeFreezeAccount))
	}
	if mintAuth {
		ins = append(ins, setAuthorityNone(mint, current, token.AuthorityTypeMintTokens))
	}
	return ins
}

func setAuthorityNone(mint, current common.PublicKey, authType token.AuthorityType) types.Instruction {
	return token.SetAuthority(token.SetAuthorityParam{
		Account:  mint,
		NewAuth:  nil,
		AuthType: authType,
		Auth:     current,
	})
}

// TransferInstruction moves lamports between system accounts.
func TransferInstruction(from, to common.PublicKey, lamports uint64) types.Instruction {
	return system.Transfer(system.TransferParam{
		From:   from,
		To:     to,
		Amount: lamports,
	})
}
