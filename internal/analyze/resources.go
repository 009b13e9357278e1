package analyze

import (
	"sort"

	"github.com/seregni/tracelens/internal/event"
)

// Resource kinds as they appear in the summary.
const (
	ResourceFileOpen    = "file-open"
	ResourceNetConnect  = "network-connect"
	ResourceProcessExec = "process-exec"
)

// resourceKindOf maps decoded syscall names to a resource kind. Anything
// else carries a decoded string we have no category for and is ignored.
var resourceKindOf = map[string]string{
	"open":     ResourceFileOpen,
	"openat":   ResourceFileOpen,
	"openat2":  ResourceFileOpen,
	"creat":    ResourceFileOpen,
	"connect":  ResourceNetConnect,
	"execve":   ResourceProcessExec,
	"execveat": ResourceProcessExec,
}

// mapResources collects the decoded resource strings (paths, endpoints,
// binaries) touched by each process, deduplicated per (comm, kind).
func mapResources(events []event.Event) map[string]map[string][]string {
	sets := map[string]map[string]map[string]struct{}{}
	for _, ev := range events {
		if ev.Type != "syscall" || ev.Decoded == "" {
			continue
		}
		kind, ok := resourceKindOf[ev.Name]
		if !ok {
			continue
		}
		comm := ev.Comm
		if comm == "" {
			comm = "unknown"
		}
		byKind, ok := sets[comm]
		if !ok {
			byKind = map[string]map[string]struct{}{}
			sets[comm] = byKind
		}
		set, ok := byKind[kind]
		if !ok {
			set = map[string]struct{}{}
			byKind[kind] = set
		}
		set[ev.Decoded] = struct{}{}
	}

	out := make(map[string]map[string][]string, len(sets))
	for comm, byKind := range sets {
		kinds := make(map[string][]string, len(byKind))
		for kind, set := range byKind {
			strs := make([]string, 0, len(set))
			for s := range set {
				strs = append(strs, s)
			}
			sort.Strings(strs)
			kinds[kind] = strs
		}
		out[comm] = kinds
	}
	return out
}
