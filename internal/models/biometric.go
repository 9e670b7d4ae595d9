package models

import "time"

// Device types
const (
	DeviceFingerprint     = "fingerprint"
	DeviceFaceRecognition = "face-recognition"
	DeviceCardReader      = "card-reader"
	DeviceIrisScanner     = "iris-scanner"
)

// Device connection states
const (
	DeviceConnected    = "connected"
	DeviceDisconnected = "disconnected"
	DeviceScanning     = "scanning"
)

// BiometricDevice is one registry entry. A device is process-wide state, not
// tied to any staff member. It may only enter 'scanning' from 'connected' and
// every scan resolves it back to 'connected'.
type BiometricDevice struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	ConnectionState string     `json:"connection_state"`
	LastSync        *time.Time `json:"last_sync,omitempty"`
}

// Scan actions
const (
	ScanActionCheckIn  = "check-in"
	ScanActionCheckOut = "check-out"
)

// BiometricLogEntry is an append-only audit record of a verified scan. It is
// written for every verified scan, whether or not the attendance mutation the
// scan triggered was accepted: the log records the physical event.
type BiometricLogEntry struct {
	ID         string    `json:"id"`
	StaffID    string    `json:"staff_id"`
	StaffName  string    `json:"staff_name"`
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"` // check-in or check-out
	DeviceID   string    `json:"device_id"`
	DeviceName string    `json:"device_name"`
	Verified   bool      `json:"verified"`
}

// StartScanRequest begins a simulated scan on a device
type StartScanRequest struct {
	StaffID  string `json:"staff_id"`
	DeviceID string `json:"device_id"`
	Action   string `json:"action"` // check-in or check-out
}

// ScanStatus is a point-in-time snapshot of an in-flight or finished scan
type ScanStatus struct {
	ScanID    string `json:"scan_id"`
	DeviceID  string `json:"device_id"`
	StaffID   string `json:"staff_id"`
	Action    string `json:"action"`
	Progress  int    `json:"progress"` // 0..100
	State     string `json:"state"`    // scanning, success, failed, cancelled
	Reason    string `json:"reason,omitempty"`
}

// Scan terminal states
const (
	ScanStateScanning  = "scanning"
	ScanStateSuccess   = "success"
	ScanStateFailed    = "failed"
	ScanStateCancelled = "cancelled"
)
