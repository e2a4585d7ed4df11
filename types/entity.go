package types

// EntityID identifies one live entity within a World. IDs come from a
// monotonically increasing counter and are never reused within a world.
// An id only has meaning for the world that issued it; presenting it to
// another world refers to unrelated data.
type EntityID uint64
