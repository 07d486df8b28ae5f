// Package ports declares the narrow interfaces between the flow engine
// and its external collaborators: state persistence, distributed
// locking and geocoding. Adapters live under pkg/adapters.
package ports
