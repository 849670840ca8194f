package robotmodel

import (
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// JointConfig represents one joint in a model JSON file. Absent limit fields
// leave the joint unbounded for that quantity.
type JointConfig struct {
	ID              string   `json:"id"`
	MaxVelocity     *float64 `json:"max_velocity,omitempty"`     // rad/s
	MaxAcceleration *float64 `json:"max_acceleration,omitempty"` // rad/s^2
	MaxJerk         *float64 `json:"max_jerk,omitempty"`         // rad/s^3
}

// GroupConfig represents one joint group in a model JSON file.
type GroupConfig struct {
	Name   string        `json:"name"`
	Joints []JointConfig `json:"joints"`
}

// ModelConfig represents all supported fields in a model JSON file.
type ModelConfig struct {
	Name   string        `json:"name"`
	Groups []GroupConfig `json:"groups"`
}

// UnmarshalModelJSON will parse the given JSON data into a robot model. modelName sets the
// name of the model, will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (*Model, error) {
	// empty data probably means that the robot component has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	var cfg ModelConfig
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	return cfg.ParseConfig(modelName)
}

// ParseConfig converts the ModelConfig struct into a full Model with the name modelName.
func (cfg *ModelConfig) ParseConfig(modelName string) (*Model, error) {
	if modelName == "" {
		modelName = cfg.Name
	}
	if len(cfg.Groups) == 0 {
		return nil, ErrNoModelInformation
	}

	var groups []*JointGroup
	var allErrs error
	for _, gc := range cfg.Groups {
		joints := make([]string, 0, len(gc.Joints))
		bounds := make([]VariableBounds, 0, len(gc.Joints))
		seen := map[string]bool{}
		for _, jc := range gc.Joints {
			if jc.ID == "" {
				allErrs = multierr.Combine(allErrs, errors.Errorf("group %q has a joint with no id", gc.Name))
				continue
			}
			if seen[jc.ID] {
				allErrs = multierr.Combine(allErrs, errors.Errorf("duplicate joint %q in group %q", jc.ID, gc.Name))
				continue
			}
			seen[jc.ID] = true
			b, err := jc.parseBounds()
			if err != nil {
				allErrs = multierr.Combine(allErrs, err)
				continue
			}
			joints = append(joints, jc.ID)
			bounds = append(bounds, b)
		}
		if allErrs != nil {
			continue
		}
		g, err := NewJointGroup(gc.Name, joints, bounds)
		if err != nil {
			allErrs = multierr.Combine(allErrs, err)
			continue
		}
		groups = append(groups, g)
	}
	if allErrs != nil {
		return nil, allErrs
	}
	return NewModel(modelName, groups...)
}

func (jc *JointConfig) parseBounds() (VariableBounds, error) {
	var b VariableBounds
	var allErrs error
	if jc.MaxVelocity != nil {
		if *jc.MaxVelocity <= 0 {
			allErrs = multierr.Combine(allErrs, errors.Errorf("joint %q max_velocity must be positive", jc.ID))
		}
		b.VelocityBounded = true
		b.MaxVelocity = *jc.MaxVelocity
	}
	if jc.MaxAcceleration != nil {
		if *jc.MaxAcceleration <= 0 {
			allErrs = multierr.Combine(allErrs, errors.Errorf("joint %q max_acceleration must be positive", jc.ID))
		}
		b.AccelerationBounded = true
		b.MaxAcceleration = *jc.MaxAcceleration
	}
	if jc.MaxJerk != nil {
		if *jc.MaxJerk <= 0 {
			allErrs = multierr.Combine(allErrs, errors.Errorf("joint %q max_jerk must be positive", jc.ID))
		}
		b.JerkBounded = true
		b.MaxJerk = *jc.MaxJerk
	}
	return b, allErrs
}
