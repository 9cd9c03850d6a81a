// Package reconcile diffs a target certification set against the on-disk
// certificate store and applies the minimal create/delete actions.
package reconcile

import (
	"fmt"
	"sort"

	"github.com/verilib-dev/structure/internal/certs"
)

// Plan is the minimal action set bringing the store in line with target.
type Plan struct {
	Create []string
	Delete []string
}

// Compute derives the plan from three symbol sets: target holds symbols
// that should be certified, existing holds symbols with a certificate, and
// tracked bounds the deletion universe. A certificate for a symbol outside
// tracked is never touched, so stale certs for artifacts the system no
// longer knows about survive untouched.
func Compute(target, existing, tracked map[string]bool) Plan {
	plan := Plan{Create: []string{}, Delete: []string{}}
	for name := range target {
		if !existing[name] {
			plan.Create = append(plan.Create, name)
		}
	}
	for name := range existing {
		if tracked[name] && !target[name] {
			plan.Delete = append(plan.Delete, name)
		}
	}
	sort.Strings(plan.Create)
	sort.Strings(plan.Delete)
	return plan
}

func (p Plan) Empty() bool {
	return len(p.Create) == 0 && len(p.Delete) == 0
}

type Op string

const (
	OpCreated Op = "created"
	OpDeleted Op = "deleted"
)

// Action is one applied certificate mutation.
type Action struct {
	Symbol   string `json:"symbol"`
	CertPath string `json:"cert_path"`
	Op       Op     `json:"action"`
}

// Report describes one apply pass. Planned and applied counts differ only
// when individual actions failed.
type Report struct {
	Actions       []Action `json:"actions,omitempty"`
	PlannedCreate int      `json:"planned_create"`
	PlannedDelete int      `json:"planned_delete"`
	Created       int      `json:"created"`
	Deleted       int      `json:"deleted"`
	Failures      []string `json:"failures,omitempty"`
	Before        int      `json:"before"`
	After         int      `json:"after"`
}

func (r Report) Partial() bool {
	return len(r.Failures) > 0
}

// Apply executes the plan against store: creates first, then deletes, each
// in ascending symbol order. A failed action is recorded and the remaining
// actions still run; before is the store size ahead of the pass.
func Apply(store certs.Store, plan Plan, before int) Report {
	report := Report{
		PlannedCreate: len(plan.Create),
		PlannedDelete: len(plan.Delete),
		Before:        before,
	}

	for _, name := range plan.Create {
		path, err := store.Create(name)
		if err != nil {
			report.Failures = append(report.Failures, fmt.Sprintf("create %s: %v", name, err))
			continue
		}
		report.Actions = append(report.Actions, Action{Symbol: name, CertPath: path, Op: OpCreated})
		report.Created++
	}

	for _, name := range plan.Delete {
		path, removed, err := store.Delete(name)
		if err != nil {
			report.Failures = append(report.Failures, fmt.Sprintf("delete %s: %v", name, err))
			continue
		}
		if !removed {
			continue
		}
		report.Actions = append(report.Actions, Action{Symbol: name, CertPath: path, Op: OpDeleted})
		report.Deleted++
	}

	report.After = report.Before + report.Created - report.Deleted
	return report
}
