package postprocess

import "fmt"

// ConfigError reports an unrecognized configuration value: an unknown
// union_heuristic/tag_strategy string, an out-of-range
// angle_union_sample_ratio, or a missing required key such as param_name.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("postprocess: config error at %q: %s", e.Key, e.Message)
}

// DatasourceError wraps a failure of the auxiliary polygon datasource's
// query during Adminizer.Process. Adminizer construction takes an
// already-open datasource, so failures to open one are not wrapped in a
// DatasourceError.
type DatasourceError struct {
	Op  string
	Err error
}

func (e *DatasourceError) Error() string {
	return fmt.Sprintf("postprocess: datasource error during %s: %v", e.Op, e.Err)
}

func (e *DatasourceError) Unwrap() error {
	return e.Err
}
