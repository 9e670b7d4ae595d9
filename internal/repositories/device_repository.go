package repositories

import (
	"context"
	"errors"
	"sync"
	"time"

	"staffboard-backend/internal/models"

	"github.com/google/uuid"
)

// ErrDeviceNotFound is returned when a device ID does not exist
var ErrDeviceNotFound = errors.New("device not found")

// ErrDeviceNotConnected is returned when a scan is attempted on a device that
// is disconnected or already scanning
var ErrDeviceNotConnected = errors.New("device is not connected")

// DeviceRepository is the process-wide biometric device registry. State
// transitions are serialized under one mutex; BeginScan and the resolve
// methods together enforce that a device can only scan from 'connected' and
// always lands back on 'connected'.
type DeviceRepository struct {
	mu      sync.RWMutex
	devices map[string]*models.BiometricDevice
	order   []string
}

func NewDeviceRepository() *DeviceRepository {
	return &DeviceRepository{devices: make(map[string]*models.BiometricDevice)}
}

// Register adds a device to the registry
func (r *DeviceRepository) Register(ctx context.Context, dev *models.BiometricDevice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if dev.ID == "" {
		dev.ID = uuid.NewString()
	}
	if _, exists := r.devices[dev.ID]; exists {
		return errors.New("device already registered")
	}
	if dev.ConnectionState == "" {
		dev.ConnectionState = models.DeviceConnected
	}
	cp := *dev
	r.devices[dev.ID] = &cp
	r.order = append(r.order, dev.ID)
	return nil
}

// Get retrieves a device by ID
func (r *DeviceRepository) Get(ctx context.Context, id string) (*models.BiometricDevice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dev, ok := r.devices[id]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	cp := *dev
	return &cp, nil
}

// List returns all devices in registration order
func (r *DeviceRepository) List(ctx context.Context) ([]*models.BiometricDevice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.BiometricDevice, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.devices[id]
		out = append(out, &cp)
	}
	return out, nil
}

// SetConnected flips a device between connected and disconnected. A device
// mid-scan cannot be disconnected.
func (r *DeviceRepository) SetConnected(ctx context.Context, id string, connected bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dev, ok := r.devices[id]
	if !ok {
		return ErrDeviceNotFound
	}
	if dev.ConnectionState == models.DeviceScanning {
		return errors.New("device is busy scanning")
	}
	if connected {
		dev.ConnectionState = models.DeviceConnected
	} else {
		dev.ConnectionState = models.DeviceDisconnected
	}
	return nil
}

// BeginScan moves a connected device into the scanning state
func (r *DeviceRepository) BeginScan(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dev, ok := r.devices[id]
	if !ok {
		return ErrDeviceNotFound
	}
	if dev.ConnectionState != models.DeviceConnected {
		return ErrDeviceNotConnected
	}
	dev.ConnectionState = models.DeviceScanning
	return nil
}

// ResolveScan returns a scanning device to connected, stamping the last sync
// time on verified success
func (r *DeviceRepository) ResolveScan(ctx context.Context, id string, verified bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dev, ok := r.devices[id]
	if !ok {
		return ErrDeviceNotFound
	}
	dev.ConnectionState = models.DeviceConnected
	if verified {
		t := at
		dev.LastSync = &t
	}
	return nil
}
