package bathymetry

// Store provides seabed depth for a lat/lon location.
type Store interface {
	// SeabedDepth returns the water depth in meters (positive down) at the
	// location. ok is false on land or outside the data coverage.
	SeabedDepth(lat, lon float64) (depth float64, ok bool, err error)

	// Close releases any resources held by the store.
	Close() error
}
