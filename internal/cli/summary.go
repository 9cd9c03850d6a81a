package cli

import (
	"fmt"

	"github.com/verilib-dev/structure/internal/fileutil"
	"github.com/verilib-dev/structure/internal/reconcile"
)

type AtomizeSummary struct {
	Mode         string `json:"mode"`
	RootPath     string `json:"root_path"`
	Atoms        int    `json:"atoms"`
	Skipped      int    `json:"skipped,omitempty"`
	Tracked      int    `json:"tracked"`
	Resolved     int    `json:"resolved"`
	MissingInfo  int    `json:"missing_info"`
	NoMatch      int    `json:"no_match"`
	Ambiguous    int    `json:"ambiguous,omitempty"`
	Enriched     int    `json:"enriched"`
	Malformed    int    `json:"malformed,omitempty"`
	UpdatedStubs bool   `json:"updated_stubs"`
	DurationMS   int64  `json:"duration_ms"`
}

func PrintAtomizeSummary(summary AtomizeSummary, asJSON bool) error {
	if asJSON {
		return fileutil.PrintJSON(summary)
	}

	fmt.Printf("atomize complete in %dms\n", summary.DurationMS)
	fmt.Printf("atoms: loaded=%d skipped=%d\n", summary.Atoms, summary.Skipped)
	fmt.Printf("stubs: tracked=%d resolved=%d missing-info=%d no-match=%d ambiguous=%d\n",
		summary.Tracked, summary.Resolved, summary.MissingInfo, summary.NoMatch, summary.Ambiguous)
	fmt.Printf("enriched: %d updated-stubs=%t\n", summary.Enriched, summary.UpdatedStubs)
	if summary.Malformed > 0 {
		fmt.Printf("malformed structure files skipped: %d\n", summary.Malformed)
	}
	return nil
}

// CertSummary is the run summary for the verify and specify commands;
// the embedded report carries the per-cert actions.
type CertSummary struct {
	Mode       string `json:"mode"`
	RootPath   string `json:"root_path"`
	Title      string `json:"-"`
	DurationMS int64  `json:"duration_ms"`
	reconcile.Report
}

func PrintCertSummary(summary CertSummary, asJSON bool) error {
	if asJSON {
		return fileutil.PrintJSON(summary)
	}

	fmt.Println(summary.Title)
	for _, action := range summary.Actions {
		marker := "+"
		if action.Op == reconcile.OpDeleted {
			marker = "-"
		}
		fmt.Printf("  %s %s\n", marker, DisplayLabel(action.Symbol))
	}
	if len(summary.Actions) == 0 {
		fmt.Println("  no certificate changes")
	}
	fmt.Printf("certs: created=%d/%d deleted=%d/%d failures=%d\n",
		summary.Created, summary.PlannedCreate, summary.Deleted, summary.PlannedDelete, len(summary.Failures))
	fmt.Printf("total certs: %d -> %d\n", summary.Before, summary.After)
	fmt.Printf("%s complete in %dms\n", summary.Mode, summary.DurationMS)
	return nil
}

type StatusSummary struct {
	Mode         string `json:"mode"`
	RootPath     string `json:"root_path"`
	Form         string `json:"form"`
	Tracked      int    `json:"tracked"`
	Enriched     int    `json:"enriched"`
	Malformed    int    `json:"malformed,omitempty"`
	Atoms        int    `json:"atoms"`
	VerifyCerts  int    `json:"verify_certs"`
	SpecifyCerts int    `json:"specify_certs"`
}

func PrintStatusSummary(summary StatusSummary, asJSON bool) error {
	if asJSON {
		return fileutil.PrintJSON(summary)
	}

	fmt.Printf("structure: form=%s tracked=%d enriched=%d\n", summary.Form, summary.Tracked, summary.Enriched)
	if summary.Malformed > 0 {
		fmt.Printf("malformed structure files: %d\n", summary.Malformed)
	}
	fmt.Printf("atoms: %d\n", summary.Atoms)
	fmt.Printf("certs: verify=%d specify=%d\n", summary.VerifyCerts, summary.SpecifyCerts)
	return nil
}
