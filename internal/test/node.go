// Package test provides an in-process Aether node double for package
// tests. The node keeps the full ledger state in memory, verifies
// canonical digests and signatures on submitted transactions the same
// way a real node would, and executes system contract calls
// synchronously at submission. Receipt visibility is scriptable so wait
// loops can be exercised deterministically.
package test

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/labstack/echo/v4"

	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
)

type accountState struct {
	balance uint64
	nonce   uint64
}

type statusScript struct {
	statuses []aether.JobStatus
	next     int
}

type delegationKey struct {
	delegator aether.Address
	validator aether.Address
}

type voteKey struct {
	proposal uint64
	voter    aether.Address
}

// Node is the in-memory ledger double. All exported methods are safe for
// concurrent use with in-flight RPC requests.
type Node struct {
	mu sync.Mutex

	slot   uint64
	blocks []aether.Block

	accounts map[aether.Address]*accountState
	txs      map[aether.Hash]*aether.Transaction
	receipts map[aether.Hash]*aether.TransactionReceipt

	holdReceipts  bool
	receiptDelays map[aether.Hash]int

	jobs       map[aether.Hash]*aether.AIJob
	jobOrder   []aether.Hash
	jobScripts map[aether.Hash]*statusScript
	vcrs       map[aether.Hash]*aether.VerifiableComputeReceipt

	models     map[aether.Hash]*aether.ModelInfo
	modelOrder []aether.Hash

	validators  map[aether.Address]*aether.Validator
	delegations map[delegationKey]*aether.Delegation
	rewards     map[aether.Address]uint64
	minStake    uint64

	proposals    map[uint64]*aether.Proposal
	votes        map[voteKey]*aether.Vote
	quorum       uint64
	nextProposal uint64

	verify      aether.VerificationResult
	verifyCalls int

	echo *echo.Echo
}

// NewNode builds a node with a sealed genesis block, an empty ledger and
// a verifier that approves every receipt.
func NewNode() *Node {
	n := &Node{
		accounts:      make(map[aether.Address]*accountState),
		txs:           make(map[aether.Hash]*aether.Transaction),
		receipts:      make(map[aether.Hash]*aether.TransactionReceipt),
		receiptDelays: make(map[aether.Hash]int),
		jobs:          make(map[aether.Hash]*aether.AIJob),
		jobScripts:    make(map[aether.Hash]*statusScript),
		vcrs:          make(map[aether.Hash]*aether.VerifiableComputeReceipt),
		models:        make(map[aether.Hash]*aether.ModelInfo),
		validators:    make(map[aether.Address]*aether.Validator),
		delegations:   make(map[delegationKey]*aether.Delegation),
		rewards:       make(map[aether.Address]uint64),
		minStake:      1000,
		proposals:     make(map[uint64]*aether.Proposal),
		votes:         make(map[voteKey]*aether.Vote),
		quorum:        100,
		nextProposal:  1,
		verify:        aether.VerificationResult{Valid: true, KZGValid: true, TEEValid: true},
	}
	n.blocks = append(n.blocks, n.sealBlock(nil))

	e := echo.New()
	e.HideBanner = true
	e.POST("/", n.handleRPC)
	n.echo = e

	return n
}

// Handler exposes the node's JSON-RPC endpoint for an httptest server.
func (n *Node) Handler() http.Handler {
	return n.echo
}

type nodeRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      json.RawMessage   `json:"id"`
}

type nodeResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	Result  any              `json:"result"`
	Error   *aether.RPCError `json:"error,omitempty"`
	ID      json.RawMessage  `json:"id"`
}

func (n *Node) handleRPC(c echo.Context) error {
	var req nodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, nodeResponse{
			JSONRPC: "2.0",
			Error:   rpcError(-32700, "parse error: %v", err),
		})
	}

	n.mu.Lock()
	result, rpcErr := n.dispatch(req.Method, req.Params)
	n.mu.Unlock()

	return c.JSON(http.StatusOK, nodeResponse{
		JSONRPC: "2.0",
		Result:  result,
		Error:   rpcErr,
		ID:      req.ID,
	})
}

//nolint:cyclop // one arm per RPC method, flat by construction
func (n *Node) dispatch(method string, params []json.RawMessage) (any, *aether.RPCError) {
	switch method {
	case "getSlot":
		return n.slot, nil
	case "getLatestBlock":
		return n.blocks[len(n.blocks)-1], nil
	case "getBlock":
		return n.getBlock(params)
	case "getBlockByHash":
		return n.getBlockByHash(params)
	case "getAccount":
		return n.getAccount(params)
	case "getTransaction":
		return n.getTransaction(params)
	case "sendTransaction":
		return n.sendTransaction(params)
	case "sendRawTransaction":
		return n.sendRawTransaction(params)
	case "getTransactionReceipt":
		return n.getTransactionReceipt(params)
	case "estimateGas":
		return n.estimateGas(params)
	case "ai_getJob":
		return n.getJob(params)
	case "ai_getJobsByCreator":
		return n.getJobsByCreator(params)
	case "ai_getPendingJobs":
		return n.jobList(func(j *aether.AIJob) bool { return j.Status == aether.JobStatusPending }), nil
	case "ai_getJobsByProvider":
		return n.getJobsByProvider(params)
	case "ai_getVCR":
		return n.getVCR(params)
	case "ai_verifyVCR":
		n.verifyCalls++
		return n.verify, nil
	case "ai_getJobStats":
		return n.jobStats(), nil
	case "ai_getProviderReputation":
		return n.getProviderReputation(params)
	case "ai_registerModel":
		return n.registerModel(params)
	case "ai_getModel":
		return n.getModel(params)
	case "ai_listModels":
		return n.modelOrder, nil
	case "staking_getValidator":
		return n.getValidator(params)
	case "staking_getValidators":
		return n.validatorList(), nil
	case "staking_getDelegation":
		return n.getDelegation(params)
	case "staking_getDelegations":
		return n.getDelegations(params)
	case "staking_getPendingRewards":
		return n.getPendingRewards(params)
	case "staking_getTotalStake":
		return n.totalStake(), nil
	case "staking_getMinimumStake":
		return n.minStake, nil
	case "governance_getProposal":
		return n.getProposal(params)
	case "governance_getActiveProposals":
		return n.proposalList(aether.ProposalStatusActive), nil
	case "governance_getAllProposals":
		return n.proposalList(""), nil
	case "governance_getVote":
		return n.getVote(params)
	case "governance_getVotingPower":
		return n.getVotingPower(params)
	case "governance_getQuorum":
		return n.quorum, nil
	default:
		return nil, rpcError(-32601, "method %s not found", method)
	}
}

func rpcError(code int, format string, args ...any) *aether.RPCError {
	return &aether.RPCError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// decodeArgs unmarshals positional params into outs, failing when the
// arities differ.
func decodeArgs(params []json.RawMessage, outs ...any) *aether.RPCError {
	if len(params) != len(outs) {
		return rpcError(-32602, "expected %d params, got %d", len(outs), len(params))
	}
	for i, out := range outs {
		if err := json.Unmarshal(params[i], out); err != nil {
			return rpcError(-32602, "param %d: %v", i, err)
		}
	}

	return nil
}

func (n *Node) account(addr aether.Address) *accountState {
	acct, ok := n.accounts[addr]
	if !ok {
		acct = &accountState{}
		n.accounts[addr] = acct
	}

	return acct
}

func (n *Node) sealBlock(txs []aether.Hash) aether.Block {
	var parent aether.Hash
	if len(n.blocks) > 0 {
		parent = n.blocks[len(n.blocks)-1].Hash
	}

	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], n.slot)

	return aether.Block{
		Slot:         n.slot,
		Hash:         sha256.Sum256(append([]byte("block"), seed[:]...)),
		ParentHash:   parent,
		StateRoot:    sha256.Sum256(append([]byte("state"), seed[:]...)),
		Timestamp:    int64(n.slot),
		Transactions: txs,
	}
}

func (n *Node) getBlock(params []json.RawMessage) (any, *aether.RPCError) {
	var (
		slot       uint64
		includeTxs bool
	)
	if rpcErr := decodeArgs(params, &slot, &includeTxs); rpcErr != nil {
		return nil, rpcErr
	}

	for _, block := range n.blocks {
		if block.Slot == slot {
			return block, nil
		}
	}

	return nil, nil
}

func (n *Node) getBlockByHash(params []json.RawMessage) (any, *aether.RPCError) {
	var (
		hash       aether.Hash
		includeTxs bool
	)
	if rpcErr := decodeArgs(params, &hash, &includeTxs); rpcErr != nil {
		return nil, rpcErr
	}

	for _, block := range n.blocks {
		if block.Hash == hash {
			return block, nil
		}
	}

	return nil, nil
}

func (n *Node) getAccount(params []json.RawMessage) (any, *aether.RPCError) {
	var addr aether.Address
	if rpcErr := decodeArgs(params, &addr); rpcErr != nil {
		return nil, rpcErr
	}

	acct := n.account(addr)

	return aether.Account{Address: addr, Balance: acct.balance, Nonce: acct.nonce}, nil
}

func (n *Node) getTransaction(params []json.RawMessage) (any, *aether.RPCError) {
	var hash aether.Hash
	if rpcErr := decodeArgs(params, &hash); rpcErr != nil {
		return nil, rpcErr
	}

	tx, ok := n.txs[hash]
	if !ok {
		return nil, nil
	}

	return tx, nil
}

func (n *Node) sendTransaction(params []json.RawMessage) (any, *aether.RPCError) {
	var args rpc.TransactionArgs
	if rpcErr := decodeArgs(params, &args); rpcErr != nil {
		return nil, rpcErr
	}

	tx := &aether.Transaction{
		Sender:          args.From,
		SenderPublicKey: args.PublicKey,
		Recipient:       args.To,
		Amount:          args.Value,
		Fee:             args.Fee,
		GasLimit:        args.GasLimit,
		Nonce:           args.Nonce,
		Memo:            args.Memo,
		Payload:         args.Data,
		Reads:           args.Reads,
		Writes:          args.Writes,
		Signature:       args.Signature,
	}

	return n.processTransaction(tx)
}

// Raw transactions are hex wrapped JSON in this double; the production
// wire format is owned by the node, not the SDK.
func (n *Node) sendRawTransaction(params []json.RawMessage) (any, *aether.RPCError) {
	var raw string
	if rpcErr := decodeArgs(params, &raw); rpcErr != nil {
		return nil, rpcErr
	}

	decoded, err := hexutil.Decode(raw)
	if err != nil {
		return nil, rpcError(-32602, "raw transaction: %v", err)
	}

	var tx aether.Transaction
	if err := json.Unmarshal(decoded, &tx); err != nil {
		return nil, rpcError(-32602, "raw transaction: %v", err)
	}

	return n.processTransaction(&tx)
}

func (n *Node) processTransaction(tx *aether.Transaction) (any, *aether.RPCError) {
	if tx.SenderPublicKey.Address() != tx.Sender {
		return nil, rpcError(-32000, "sender does not match public key")
	}
	if !tx.Verify() {
		return nil, rpcError(-32000, "invalid signature")
	}

	sender := n.account(tx.Sender)
	if tx.Nonce != sender.nonce {
		return nil, rpcError(-32001, "invalid nonce: expected %d", sender.nonce)
	}
	if sender.balance < tx.Amount+tx.Fee {
		return nil, rpcError(-32002, "insufficient balance")
	}

	tx.Hash = tx.Digest()
	sender.nonce++
	sender.balance -= tx.Amount + tx.Fee
	n.account(tx.Recipient).balance += tx.Amount

	gasUsed := gasFor(len(tx.Payload))
	logs, execErr := n.executeContract(tx)
	if execErr == nil && gasUsed > tx.GasLimit {
		execErr = fmt.Errorf("out of gas: need %d, limit %d", gasUsed, tx.GasLimit)
	}

	status := aether.ReceiptStatusSuccess
	if execErr != nil {
		status = aether.ReceiptStatusFailed
		logs = append(logs, execErr.Error())
	}

	n.slot++
	block := n.sealBlock([]aether.Hash{tx.Hash})
	n.blocks = append(n.blocks, block)

	n.txs[tx.Hash] = tx
	n.receipts[tx.Hash] = &aether.TransactionReceipt{
		TransactionHash: tx.Hash,
		BlockHash:       block.Hash,
		BlockSlot:       block.Slot,
		From:            tx.Sender,
		To:              tx.Recipient,
		Status:          status,
		GasUsed:         gasUsed,
		Logs:            logs,
	}

	return tx.Hash, nil
}

func (n *Node) getTransactionReceipt(params []json.RawMessage) (any, *aether.RPCError) {
	var hash aether.Hash
	if rpcErr := decodeArgs(params, &hash); rpcErr != nil {
		return nil, rpcErr
	}

	if n.holdReceipts {
		return nil, nil
	}
	if left, ok := n.receiptDelays[hash]; ok && left > 0 {
		n.receiptDelays[hash] = left - 1
		return nil, nil
	}

	receipt, ok := n.receipts[hash]
	if !ok {
		return nil, nil
	}

	return receipt, nil
}

func (n *Node) estimateGas(params []json.RawMessage) (any, *aether.RPCError) {
	var args rpc.TransactionArgs
	if rpcErr := decodeArgs(params, &args); rpcErr != nil {
		return nil, rpcErr
	}

	return gasFor(len(args.Data)), nil
}

func gasFor(payloadLen int) uint64 {
	return 21_000 + 10*uint64(payloadLen)
}
