// Package decoders imports all decoder packages to trigger their init() registration.
// Import this package for side effects only.
package decoders

import (
	// Import all decoder packages to register them with the registry.
	_ "adsb_parser/internal/decoders/emergency"
	_ "adsb_parser/internal/decoders/identification"
	_ "adsb_parser/internal/decoders/tcasra"
)
