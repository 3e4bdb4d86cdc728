// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// OutcomeStatus is the terminal state of a candidate within a pass.
type OutcomeStatus string

const (
	OutcomeSynced    OutcomeStatus = "synced"
	OutcomePublished OutcomeStatus = "published"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeSkipped   OutcomeStatus = "skipped"
)

// DocumentRef is the opaque identifier the remote system returns for an
// uploaded document.
type DocumentRef string

// DocumentOutcome reports the synchronization of one document, in the
// position it held in the payload.
type DocumentOutcome struct {
	Index    int         `json:"index"`
	Filename string      `json:"filename,omitempty"`
	MimeType string      `json:"mime_type,omitempty"`
	Ref      DocumentRef `json:"ref,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// CandidateOutcome reports the processing of one candidate.
type CandidateOutcome struct {
	ObjectID  string            `json:"object_id"`
	Status    OutcomeStatus     `json:"status"`
	Error     string            `json:"error,omitempty"`
	RemoteRef string            `json:"remote_ref,omitempty"`
	Documents []DocumentOutcome `json:"documents,omitempty"`
}

// PassReport summarizes one pass of a handler.
type PassReport struct {
	Handler    string             `json:"handler"`
	Strategy   Strategy           `json:"strategy"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Discovered int                `json:"discovered"`
	Outcomes   []CandidateOutcome `json:"outcomes"`
}

// Count returns the number of outcomes with the given status.
func (r PassReport) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// ProgressKind identifies a progress event.
type ProgressKind string

const (
	ProgressPassStarted   ProgressKind = "pass_started"
	ProgressCandidateDone ProgressKind = "candidate_done"
	ProgressPassFinished  ProgressKind = "pass_finished"
)

// ProgressEvent is delivered to a ProgressObserver during a pass.
type ProgressEvent struct {
	Kind    ProgressKind
	Handler string
	Total   int
	Outcome *CandidateOutcome
	Report  *PassReport
}

// ProgressObserver receives progress events of a running pass. Calls are
// serialized by the caller.
type ProgressObserver func(ProgressEvent)
