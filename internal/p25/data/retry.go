// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package data

// retryCeiling is the number of times a PDU is resent verbatim on
// ACK_RETRY before the peer gives up and reports it undeliverable.
const retryCeiling = 2

// RetryState tracks the most recently transmitted PDU for a stream so
// an ACK_RETRY can trigger a verbatim resend up to a fixed ceiling.
type RetryState struct {
	lastSent []byte
	retries  int
}

// NewRetryState returns an empty RetryState.
func NewRetryState() *RetryState {
	return &RetryState{}
}

// Sent records pdu as the most recently transmitted packet and resets
// the retry counter.
func (r *RetryState) Sent(pdu []byte) {
	r.lastSent = append([]byte{}, pdu...)
	r.retries = 0
}

// AckRetry reports the PDU to resend verbatim after an ACK_RETRY. ok
// is false once the retry ceiling is exceeded, meaning the caller
// must report NACK_UNDELIVERABLE instead of resending.
func (r *RetryState) AckRetry() (pdu []byte, ok bool) {
	if r.retries >= retryCeiling {
		return nil, false
	}
	r.retries++
	return r.lastSent, true
}

// Retries reports how many retransmits have been sent for the current
// PDU.
func (r *RetryState) Retries() int {
	return r.retries
}
