package main

import (
	"errors"
	"math/rand/v2"
	"sort"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/sequenced-amm/commitment"
	"github.com/luca-patrignani/sequenced-amm/common"
	"github.com/luca-patrignani/sequenced-amm/domain/amm"
	"github.com/luca-patrignani/sequenced-amm/ledger"
	"github.com/luca-patrignani/sequenced-amm/sequencer"
	"github.com/luca-patrignani/sequenced-amm/simulation"
)

// meanConfirmationMinutes is the mean of the exponential distribution the
// displayed confirmation wait is drawn from.
const meanConfirmationMinutes = 10

type reporter interface {
	committed(participant string, h common.Hash, st sequencer.Snapshot)
	swapped(participant string, res sequencer.SwapResult)
	withdrawn(w sequencer.WithdrawResult)
	status(st sequencer.Snapshot)
	pending(p []commitment.Commitment)
	history(blocks []ledger.Block)
	verified(st sequencer.Snapshot)
	metrics(m map[string]float64)
	simulated(r simulation.Report, st sequencer.Snapshot)
	help(text string)
	failed(err error)
}

type ptermReporter struct{}

func (ptermReporter) committed(participant string, h common.Hash, st sequencer.Snapshot) {
	pterm.Success.Printfln("%s committed: hash %s", pterm.LightCyan(participant), h)
	pterm.Info.Printfln("New digest: %s", st.Digest)
}

func (ptermReporter) swapped(participant string, res sequencer.SwapResult) {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	wait := rand.ExpFloat64() * meanConfirmationMinutes
	body := pterm.Sprintfln("%s received %d", pterm.LightCyan(participant), res.Output) +
		pterm.Sprintfln("Pool: base=%d quote=%d", res.Pool.ReserveBase, res.Pool.ReserveQuote) +
		pterm.Sprintfln("Protocol fee: %d", res.Fee) +
		pterm.Sprintfln("Digest: %s", res.Digest) +
		pterm.Sprintf("Simulated wait: %.2f min", wait)
	pbox.WithTitle(pterm.LightGreen("|SWAP|")).WithTitleTopCenter().Println(body)
}

func (ptermReporter) withdrawn(w sequencer.WithdrawResult) {
	pterm.Warning.Printfln("Withdrawn: base=%d quote=%d. Pool reset.", w.Base, w.Quote)
}

func (ptermReporter) status(st sequencer.Snapshot) {
	pterm.Println(poolPanel(st))
}

func poolPanel(st sequencer.Snapshot) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	state := pterm.LightGreen("Active")
	if st.Pool.Drained() {
		state = pterm.LightRed("Drained")
	}
	return pbox.WithTitle(pterm.LightYellow("|POOL|")).WithTitleTopLeft().Sprintf(
		"%s\nBase: %d\nQuote: %d\nK: %d\nDigest: %s\nPending commitments: %d\nHeight: %d",
		state, st.Pool.ReserveBase, st.Pool.ReserveQuote, st.Pool.K, st.Digest, st.Pending, st.Height,
	)
}

func (ptermReporter) pending(p []commitment.Commitment) {
	if len(p) == 0 {
		pterm.Info.Println("No pending commitments")
		return
	}
	data := pterm.TableData{{"#", "Participant", "Hash"}}
	for i, c := range p {
		data = append(data, []string{strconv.Itoa(i), c.ParticipantID, c.Hash.String()})
	}
	renderTable(data)
}

func (ptermReporter) history(blocks []ledger.Block) {
	data := pterm.TableData{{"Index", "Kind", "Participant", "Digest"}}
	for _, b := range blocks {
		data = append(data, []string{strconv.Itoa(b.Index), string(b.Kind), b.Participant, b.Digest.String()})
	}
	renderTable(data)
}

func (ptermReporter) verified(st sequencer.Snapshot) {
	pterm.Success.Printfln("Journal of %d steps verified, digest %s", st.Height, st.Digest)
}

func (ptermReporter) metrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	data := pterm.TableData{{"Metric", "Value"}}
	for _, name := range names {
		data = append(data, []string{name, strconv.FormatFloat(m[name], 'f', -1, 64)})
	}
	renderTable(data)
}

func (ptermReporter) simulated(r simulation.Report, st sequencer.Snapshot) {
	pterm.Info.Printfln("Simulation done: %d swapped, %d failed", r.Swapped, r.Failed)
	pterm.Println(poolPanel(st))
}

func (ptermReporter) help(text string) {
	pterm.Info.Println("Commands:\n" + text)
}

func (ptermReporter) failed(err error) {
	switch {
	case errors.Is(err, commitment.ErrCommitmentMismatch):
		pterm.Error.Printfln("Invalid commit hash for this participant: %v", err)
	case errors.Is(err, amm.ErrInsufficientLiquidity):
		pterm.Error.Printfln("Swap rejected, commitment consumed: %v", err)
	case errors.Is(err, common.ErrMalformedCommitment):
		pterm.Error.Printfln("Malformed commitment hash: %v", err)
	case errors.Is(err, errUsage):
		pterm.Warning.Println(err.Error())
	default:
		pterm.Error.Println(err.Error())
	}
}

func renderTable(data pterm.TableData) {
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err.Error())
	}
}
