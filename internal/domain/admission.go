package domain

// Admission rules for participation requests. These functions are pure:
// callers load the event and its requests, invoke a decision, and persist
// the outcome. The request repository runs them against a locked snapshot
// so the confirmed count cannot move between check and write.

// DecideSubmission validates a new participation request and returns its
// initial status. Preconditions are checked in order, each with its own
// error: duplicate active request, self participation, event not published,
// capacity exhausted. With moderation off the request is confirmed
// immediately; otherwise it starts pending.
func DecideSubmission(event *Event, requesterID int64, existing []*Request, confirmedCount int64) (RequestStatus, error) {
	for _, req := range existing {
		if req.RequesterID == requesterID && req.Status.Active() {
			return "", ErrDuplicateRequest
		}
	}
	if event.Initiator != nil && event.Initiator.ID == requesterID {
		return "", ErrSelfParticipation
	}
	if event.State != EventStatePublished {
		return "", ErrEventNotPublished
	}
	if !event.Unlimited() && confirmedCount >= int64(event.ParticipantLimit) {
		return "", ErrCapacityExceeded
	}
	if event.RequestModeration {
		return RequestStatusPending, nil
	}
	return RequestStatusConfirmed, nil
}

// DecideConfirmation checks that confirming one more request keeps the
// confirmed count within the participant limit.
func DecideConfirmation(event *Event, confirmedCount int64) error {
	if !event.Unlimited() && confirmedCount >= int64(event.ParticipantLimit) {
		return ErrCapacityExceeded
	}
	return nil
}

// CapacityFilled reports whether confirmedCount exactly fills the limit,
// which triggers the auto-cancel cascade over remaining pending requests.
func CapacityFilled(event *Event, confirmedCount int64) bool {
	return !event.Unlimited() && confirmedCount == int64(event.ParticipantLimit)
}

// DecideCancel validates a requester's cancellation of their own request.
// A rejected request cannot be canceled; canceling twice is a no-op the
// caller detects by the returned status.
func DecideCancel(request *Request, requesterID int64) error {
	if request.RequesterID != requesterID {
		return ErrNotOwner
	}
	if request.Status == RequestStatusRejected {
		return ErrInvalidInput
	}
	return nil
}
