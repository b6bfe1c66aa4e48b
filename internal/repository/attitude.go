package repository

import (
	"fmt"

	"github.com/joalopez1206/suchai/internal/types"
)

// Attitude state is spread over consecutive float status variables: a
// quaternion takes four starting at its base address, an angular rate
// vector three.

// GetQuaternion reads the four floats starting at base.
func (r *Repository) GetQuaternion(base types.StatusAddress) ([4]float32, error) {
	var q [4]float32
	if int(base)+len(q) > int(types.StatusLastVar) {
		return q, fmt.Errorf("repository: quaternion at %d overruns the status table", base)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range q {
		v, err := r.getStatus(base + types.StatusAddress(i))
		if err != nil {
			return q, err
		}
		q[i] = v.Float()
	}
	return q, nil
}

// SetQuaternion stores the four floats starting at base.
func (r *Repository) SetQuaternion(base types.StatusAddress, q [4]float32) error {
	if int(base)+len(q) > int(types.StatusLastVar) {
		return fmt.Errorf("repository: quaternion at %d overruns the status table", base)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range q {
		if err := r.setStatus(base+types.StatusAddress(i), types.FloatValue(f)); err != nil {
			return err
		}
	}
	return nil
}

// GetVector reads the three floats starting at base.
func (r *Repository) GetVector(base types.StatusAddress) ([3]float32, error) {
	var vec [3]float32
	if int(base)+len(vec) > int(types.StatusLastVar) {
		return vec, fmt.Errorf("repository: vector at %d overruns the status table", base)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range vec {
		v, err := r.getStatus(base + types.StatusAddress(i))
		if err != nil {
			return vec, err
		}
		vec[i] = v.Float()
	}
	return vec, nil
}

// SetVector stores the three floats starting at base.
func (r *Repository) SetVector(base types.StatusAddress, vec [3]float32) error {
	if int(base)+len(vec) > int(types.StatusLastVar) {
		return fmt.Errorf("repository: vector at %d overruns the status table", base)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range vec {
		if err := r.setStatus(base+types.StatusAddress(i), types.FloatValue(f)); err != nil {
			return err
		}
	}
	return nil
}
