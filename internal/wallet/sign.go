package wallet

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// signedMessagePrefix is the EIP-191 personal_sign prefix; the message length
// is appended before hashing.
const signedMessagePrefix = "\x19Ethereum Signed Message:\n"

// SignMessage signs a message with EIP-191 personal_sign and returns a
// 65-byte R||S||V signature. Used to prove control of a deployer address
// without sending a transaction.
func SignMessage(w *Wallet, ks KeystoreBackend, message []byte) ([]byte, error) {
	if w.Type != TypeSigning {
		return nil, fmt.Errorf("wallet %q is watch-only and cannot sign", w.Name)
	}

	hexKey, err := ks.Retrieve(w.KeyRef)
	if err != nil {
		return nil, fmt.Errorf("retrieving key: %w", err)
	}
	privKey, err := crypto.HexToECDSA(stripHexPrefix(hexKey))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	sig, err := crypto.Sign(personalSignHash(message), privKey)
	if err != nil {
		return nil, fmt.Errorf("signing message: %w", err)
	}

	// crypto.Sign yields V as 0/1; wallets expect 27/28.
	sig[64] += 27
	return sig, nil
}

// VerifyMessage recovers the address that produced an EIP-191 signature.
func VerifyMessage(message, sig []byte) (common.Address, error) {
	if len(sig) != 65 {
		return common.Address{}, fmt.Errorf("invalid signature length: expected 65 bytes, got %d", len(sig))
	}

	recoverSig := make([]byte, 65)
	copy(recoverSig, sig)
	recoverSig[64] -= 27 // back to 0/1 for ecrecover

	pubKey, err := crypto.SigToPub(personalSignHash(message), recoverSig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recovering signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

func personalSignHash(message []byte) []byte {
	prefixed := fmt.Sprintf("%s%d%s", signedMessagePrefix, len(message), message)
	return crypto.Keccak256([]byte(prefixed))
}
