package entity

import "time"

// Transition is the outcome of a publish request.
type Transition struct {
	Status               PostStatus
	IsPublished          bool
	PublishedAt          *time.Time
	SubmittedForReviewAt *time.Time
	Changed              bool
}

// ResolvePublish decides where a post goes when its author or an editor
// asks to publish or unpublish it.
//
// Editors publish directly. Authors may republish a post that was already
// approved or unpublished; every other publish request is queued for review
// as PENDING instead of being refused. Unpublishing only affects published
// posts.
func ResolvePublish(current PostStatus, publish, privileged bool, now time.Time) Transition {
	if current == "" {
		current = StatusDraft
	}
	keep := Transition{Status: current, IsPublished: current == StatusPublished}

	if !publish {
		if current != StatusPublished {
			return keep
		}
		return Transition{Status: StatusUnpublished, Changed: true}
	}

	if current == StatusPublished {
		return keep
	}

	if privileged || current == StatusApproved || current == StatusUnpublished {
		return Transition{Status: StatusPublished, IsPublished: true, PublishedAt: &now, Changed: true}
	}

	if current == StatusPending {
		return keep
	}
	return Transition{Status: StatusPending, SubmittedForReviewAt: &now, Changed: true}
}

// CanModerate reports whether a post is waiting for a moderation decision.
func CanModerate(current PostStatus) bool {
	return current == StatusPending
}
