package analyze

import (
	"sort"

	"github.com/seregni/tracelens/internal/event"
)

// buildTree reconstructs process ancestry from the (pid, ppid, comm) triples
// observed anywhere in the stream. Last-seen comm and ppid win per pid.
func buildTree(events []event.Event) ProcessTree {
	comms := map[int]string{}
	parents := map[int]int{}
	known := map[int]bool{}

	for _, ev := range events {
		if !ev.HasPID {
			continue
		}
		known[ev.PID] = true
		if ev.Comm != "" {
			comms[ev.PID] = ev.Comm
		}
		if ev.HasPPID {
			parents[ev.PID] = ev.PPID
		}
	}

	// Child adjacency, minus self-referential edges (the tracer reports
	// ppid == pid for kernel threads' bookkeeping entries).
	children := map[int][]int{}
	for pid, ppid := range parents {
		if ppid == pid || !known[ppid] {
			continue
		}
		children[ppid] = append(children[ppid], pid)
	}
	for ppid := range children {
		sort.Ints(children[ppid])
	}

	var roots []int
	for pid := range known {
		ppid, ok := parents[pid]
		if !ok || ppid == pid || !known[ppid] {
			roots = append(roots, pid)
		}
	}
	sort.Ints(roots)

	tree := ProcessTree{Roots: make([]*TreeNode, 0, len(roots))}
	// Deeper cycles than the self-loop sentinel are not expected from real
	// traces, but the visited set makes the walk terminate regardless.
	visited := map[int]bool{}
	var build func(pid int) *TreeNode
	build = func(pid int) *TreeNode {
		node := &TreeNode{PID: pid, Comm: comms[pid]}
		visited[pid] = true
		for _, child := range children[pid] {
			if visited[child] {
				continue
			}
			node.Children = append(node.Children, build(child))
		}
		return node
	}
	for _, pid := range roots {
		if visited[pid] {
			continue
		}
		tree.Roots = append(tree.Roots, build(pid))
	}

	pids := make([]int, 0, len(known))
	for pid := range known {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	tree.Flat = make([]FlatProcess, 0, len(pids))
	for _, pid := range pids {
		tree.Flat = append(tree.Flat, FlatProcess{
			PID:  pid,
			Comm: comms[pid],
			PPID: parents[pid],
		})
	}
	return tree
}
