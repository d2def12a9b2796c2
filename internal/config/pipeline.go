package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PipelineConfig represents the root configuration for a hotspot run.
// All fields are optional; pointers distinguish "not set" from a zero
// value so partial config files only override what they name.
type PipelineConfig struct {
	// Detection params
	PrimaryThreshold   *float64 `json:"primary_threshold,omitempty"`
	SecondaryThreshold *float64 `json:"secondary_threshold,omitempty"`
	ModisScale         *bool    `json:"modis_scale,omitempty"`
	ThresholdAnomaly   *bool    `json:"threshold_anomaly,omitempty"`

	// Output params
	VectorMode         *string `json:"vector_mode,omitempty"` // "polygon" or "point"
	ValueProperty      *string `json:"value_property,omitempty"`
	MetadataPerFeature *bool   `json:"metadata_per_feature,omitempty"`

	// Geometry params
	SimplifyToleranceMeters *float64 `json:"simplify_tolerance_meters,omitempty"`

	// Execution params
	TileRows *int `json:"tile_rows,omitempty"`

	// Metadata params
	PeriodDays *int    `json:"period_days,omitempty"`
	DataSource *string `json:"data_source,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultPipelineConfig returns a PipelineConfig with every field set to
// its default value.
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		PrimaryThreshold:        ptrFloat64(30.0),
		SecondaryThreshold:      ptrFloat64(0.2),
		ModisScale:              ptrBool(false),
		ThresholdAnomaly:        ptrBool(false),
		VectorMode:              ptrString("polygon"),
		ValueProperty:           ptrString("UHI"),
		MetadataPerFeature:      ptrBool(false),
		SimplifyToleranceMeters: ptrFloat64(0),
		TileRows:                ptrInt(0),
		PeriodDays:              ptrInt(30),
		DataSource:              ptrString("MODIS_LST/NDVI"),
	}
}

// LoadPipelineConfig loads a PipelineConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := &PipelineConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *PipelineConfig) Validate() error {
	// Validate SecondaryThreshold if set. NDVI lives in [-1, 1].
	if c.SecondaryThreshold != nil {
		if *c.SecondaryThreshold < -1 || *c.SecondaryThreshold > 1 {
			return fmt.Errorf("secondary_threshold must be between -1 and 1, got %f", *c.SecondaryThreshold)
		}
	}

	// Validate VectorMode if set
	if c.VectorMode != nil {
		switch *c.VectorMode {
		case "polygon", "point":
		default:
			return fmt.Errorf("vector_mode must be \"polygon\" or \"point\", got %q", *c.VectorMode)
		}
	}

	// Validate SimplifyToleranceMeters if set
	if c.SimplifyToleranceMeters != nil {
		if *c.SimplifyToleranceMeters < 0 {
			return fmt.Errorf("simplify_tolerance_meters must be non-negative, got %f", *c.SimplifyToleranceMeters)
		}
	}

	// Validate TileRows if set
	if c.TileRows != nil {
		if *c.TileRows < 0 {
			return fmt.Errorf("tile_rows must be non-negative, got %d", *c.TileRows)
		}
	}

	// Validate PeriodDays if set
	if c.PeriodDays != nil {
		if *c.PeriodDays <= 0 {
			return fmt.Errorf("period_days must be positive, got %d", *c.PeriodDays)
		}
	}

	return nil
}

// GetPrimaryThreshold returns the primary_threshold value or the default.
func (c *PipelineConfig) GetPrimaryThreshold() float64 {
	if c.PrimaryThreshold == nil {
		return 30.0 // default
	}
	return *c.PrimaryThreshold
}

// GetSecondaryThreshold returns the secondary_threshold value or the default.
func (c *PipelineConfig) GetSecondaryThreshold() float64 {
	if c.SecondaryThreshold == nil {
		return 0.2 // default
	}
	return *c.SecondaryThreshold
}

// GetModisScale returns the modis_scale value or the default.
func (c *PipelineConfig) GetModisScale() bool {
	if c.ModisScale == nil {
		return false // default: inputs are already in degrees Celsius
	}
	return *c.ModisScale
}

// GetThresholdAnomaly returns the threshold_anomaly value or the default.
func (c *PipelineConfig) GetThresholdAnomaly() bool {
	if c.ThresholdAnomaly == nil {
		return false // default: threshold absolute values
	}
	return *c.ThresholdAnomaly
}

// GetVectorMode returns the vector_mode value or the default.
func (c *PipelineConfig) GetVectorMode() string {
	if c.VectorMode == nil || *c.VectorMode == "" {
		return "polygon" // default
	}
	return *c.VectorMode
}

// GetValueProperty returns the value_property value or the default.
func (c *PipelineConfig) GetValueProperty() string {
	if c.ValueProperty == nil || *c.ValueProperty == "" {
		return "UHI" // default
	}
	return *c.ValueProperty
}

// GetMetadataPerFeature returns the metadata_per_feature value or the default.
func (c *PipelineConfig) GetMetadataPerFeature() bool {
	if c.MetadataPerFeature == nil {
		return false // default: one collection-level metadata block
	}
	return *c.MetadataPerFeature
}

// GetSimplifyToleranceMeters returns the simplify_tolerance_meters value or the default.
func (c *PipelineConfig) GetSimplifyToleranceMeters() float64 {
	if c.SimplifyToleranceMeters == nil {
		return 0 // default: simplification off
	}
	return *c.SimplifyToleranceMeters
}

// GetTileRows returns the tile_rows value or the default.
func (c *PipelineConfig) GetTileRows() int {
	if c.TileRows == nil {
		return 0 // default: untiled
	}
	return *c.TileRows
}

// GetPeriodDays returns the period_days value or the default.
func (c *PipelineConfig) GetPeriodDays() int {
	if c.PeriodDays == nil {
		return 30 // default
	}
	return *c.PeriodDays
}

// GetDataSource returns the data_source value or the default.
func (c *PipelineConfig) GetDataSource() string {
	if c.DataSource == nil || *c.DataSource == "" {
		return "MODIS_LST/NDVI" // default
	}
	return *c.DataSource
}
