// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api exposes the committed chain and ledger state over HTTP.
// All endpoints are read-only.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/electchain/electra/block"
	"github.com/electchain/electra/chain"
	"github.com/electchain/electra/electra"
	"github.com/electchain/electra/ledger"
	"github.com/electchain/electra/vote"
)

type API struct {
	chain     *chain.Chain
	ledger    *ledger.Ledger
	qualifier *vote.Qualifier
	owned     vote.OwnedFunc
}

// New assembles the HTTP handler serving chain and ledger reads.
// owned may be nil, in which case vote qualification counts all outputs.
func New(ch *chain.Chain, l *ledger.Ledger, q *vote.Qualifier, owned vote.OwnedFunc) http.Handler {
	a := &API{chain: ch, ledger: l, qualifier: q, owned: owned}

	router := mux.NewRouter()
	router.HandleFunc("/accounts/{address}", a.handleGetAccount).Methods(http.MethodGet)
	router.HandleFunc("/candidates", a.handleGetCandidates).Methods(http.MethodGet)
	router.HandleFunc("/assets/{asset}/frozen", a.handleGetFrozen).Methods(http.MethodGet)
	router.HandleFunc("/blocks/{revision}", a.handleGetBlock).Methods(http.MethodGet)
	router.HandleFunc("/blocks/{revision}/votes", a.handleGetBlockVotes).Methods(http.MethodGet)
	router.HandleFunc("/ledger/head", a.handleGetHead).Methods(http.MethodGet)

	return handlers.CORS(handlers.AllowedOrigins([]string{"*"}))(
		handlers.CompressHandler(router))
}

// Account is the JSON shape of one ledger account.
type Account struct {
	Address     string   `json:"address"`
	Balance     int64    `json:"balance"`
	Tally       int64    `json:"tally"`
	Enrollment  string   `json:"enrollment"`
	DelegatesTo []string `json:"delegatesTo"`
	SupportedBy []string `json:"supportedBy"`
}

func convertAccount(acc *ledger.Account) *Account {
	out := &Account{
		Address:     acc.Address.String(),
		Balance:     int64(acc.Balance),
		Tally:       int64(acc.Tally),
		Enrollment:  acc.Enrollment.String(),
		DelegatesTo: []string{},
		SupportedBy: []string{},
	}
	for _, a := range acc.DelegatesTo {
		out.DelegatesTo = append(out.DelegatesTo, a.String())
	}
	for _, a := range acc.SupportedBy {
		out.SupportedBy = append(out.SupportedBy, a.String())
	}
	return out
}

func (a *API) handleGetAccount(w http.ResponseWriter, req *http.Request) {
	addr, err := electra.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		http.Error(w, "invalid address", http.StatusBadRequest)
		return
	}
	acc, err := a.ledger.Account(*addr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, convertAccount(acc))
}

func (a *API) handleGetCandidates(w http.ResponseWriter, req *http.Request) {
	candidates, err := a.ledger.Candidates()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]*Account, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, convertAccount(c))
	}
	writeJSON(w, out)
}

func (a *API) handleGetFrozen(w http.ResponseWriter, req *http.Request) {
	frozen, err := a.ledger.Frozen(mux.Vars(req)["asset"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]bool{"frozen": frozen})
}

// BlockSummary is the JSON shape of one block header.
type BlockSummary struct {
	ID        string `json:"id"`
	Number    uint32 `json:"number"`
	ParentID  string `json:"parentID"`
	Timestamp uint64 `json:"timestamp"`
	TxsRoot   string `json:"txsRoot"`
	TxCount   int    `json:"txCount"`
}

func (a *API) handleGetBlock(w http.ResponseWriter, req *http.Request) {
	blk, err := a.resolveBlock(mux.Vars(req)["revision"])
	if err != nil {
		if a.chain.IsNotFound(err) {
			http.Error(w, "block not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	header := blk.Header()
	writeJSON(w, &BlockSummary{
		ID:        header.ID().String(),
		Number:    header.Number(),
		ParentID:  header.ParentID().String(),
		Timestamp: header.Timestamp(),
		TxsRoot:   header.TxsRoot().String(),
		TxCount:   len(blk.Transactions()),
	})
}

// resolveBlock accepts "best", a decimal block number or a hex block id.
func (a *API) resolveBlock(revision string) (*block.Block, error) {
	if revision == "best" {
		return a.chain.BestBlock(), nil
	}
	if id, err := electra.ParseBytes32(revision); err == nil {
		return a.chain.GetBlock(id)
	}
	num, err := strconv.ParseUint(revision, 10, 32)
	if err != nil {
		return nil, err
	}
	return a.chain.GetBlockByNumber(uint32(num))
}

// TxVote reports the voting contribution of one transaction at its block
// position.
type TxVote struct {
	TxID   string `json:"txID"`
	Type   string `json:"type"`
	Amount int64  `json:"amount"`
	Error  string `json:"error,omitempty"`
}

func (a *API) handleGetBlockVotes(w http.ResponseWriter, req *http.Request) {
	blk, err := a.resolveBlock(mux.Vars(req)["revision"])
	if err != nil {
		if a.chain.IsNotFound(err) {
			http.Error(w, "block not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pos := blk.Header().ID()
	votes := make([]*TxVote, 0, len(blk.Transactions()))
	for _, trx := range blk.Transactions() {
		v := &TxVote{TxID: trx.ID().String(), Type: trx.Type().String()}
		amount, err := a.qualifier.Qualify(pos, trx, a.owned)
		if err != nil {
			v.Error = err.Error()
		} else {
			v.Amount = int64(amount)
		}
		votes = append(votes, v)
	}
	writeJSON(w, votes)
}

func (a *API) handleGetHead(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, map[string]string{"head": a.ledger.Head().String()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
