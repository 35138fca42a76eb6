package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/chunkcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SelfHealEvery        uint64
	MissingChildrenEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

// Hooks logs chunkcache events via slog. Self-heals and missing-children
// events can storm under a misbehaving store, so both are sampled; split
// aborts and rejected markers are rare and always logged.
type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr  atomic.Uint64
	missChildCtr atomic.Uint64
}

var _ chunkcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("chunkcache.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) SplitFallback(storageKey string, payloadLen, chunks int, tooLarge bool) {
	if h.l == nil {
		return
	}
	h.l.Debug("chunkcache.split_fallback",
		"key", h.redact(storageKey),
		"bytes", payloadLen,
		"chunks", chunks,
		"too_large", tooLarge)
}

func (h *Hooks) SplitAborted(storageKey string, failedIndex, planned int) {
	if h.l == nil {
		return
	}
	h.l.Warn("chunkcache.split_aborted",
		"key", h.redact(storageKey),
		"failed_index", failedIndex,
		"planned", planned)
}

func (h *Hooks) MarkerRejected(storageKey string, chunks int) {
	if h.l == nil {
		return
	}
	h.l.Warn("chunkcache.marker_rejected",
		"key", h.redact(storageKey),
		"orphaned_chunks", chunks)
}

func (h *Hooks) MissingChildren(storageKey string, want, got int) {
	if h.l == nil || !sample(h.opts.MissingChildrenEvery, &h.missChildCtr) {
		return
	}
	h.l.Debug("chunkcache.missing_children",
		"key", h.redact(storageKey),
		"want", want,
		"got", got)
}
