package system

// Priority buckets used when registering systems with ecs.World.AddSystem.
// Lower values run first. The spatial hash and collision detection sit
// strictly after everything that moves entities, so they see this frame's
// positions.
const (
	PriorityInput       = 0  // host input, AI intents
	PriorityMovement    = 10 // velocity integration
	PrioritySpatialHash = 20 // re-index moved entities
	PriorityCollision   = 30 // broad + narrow phase
	PriorityResolve     = 40 // gameplay consumers of CollisionsFresh
	PriorityDebug       = 90 // inspection, stays live while frozen
)
