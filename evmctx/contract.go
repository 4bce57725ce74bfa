package evmctx

import "github.com/ethcore/evmctx/types"

// Contract is the executing frame's static context: the code being run,
// its caller and address, the call input, and the attached value.
// Grounded on the teacher's core/vm.Contract, generalized from raw
// `[]byte` code to the tagged `types.Bytecode` so a frame can carry EOF
// containers without a parallel struct, and from `*big.Int` value to
// `*types.Word`.
type Contract struct {
	Caller   types.Address
	Address  types.Address
	Code     *types.Bytecode
	CodeHash types.Hash
	Input    []byte
	Value    *types.Word

	// IsEOFInit marks a frame constructed via EOFCREATE/EOFCREATE-by-
	// transaction: only such frames may execute RETURNCONTRACT
	// (EIP-7620).
	IsEOFInit bool
}

// NewContract builds a Contract for a CALL-family frame.
func NewContract(caller, addr types.Address, code *types.Bytecode, codeHash types.Hash, input []byte, value *types.Word) *Contract {
	return &Contract{
		Caller:   caller,
		Address:  addr,
		Code:     code,
		CodeHash: codeHash,
		Input:    input,
		Value:    value,
	}
}
