package ai

import (
	"testing"

	"github.com/fabricengine/fabric"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func treeFallback() Node {
	return Fallback{Children: []Node{
		Sequence{Children: []Node{conditionNode{check: isHealthLow}, actionNode{state: Flee}}},
		Sequence{Children: []Node{conditionNode{check: isPlayerNearby}, actionNode{state: Chase}}},
		actionNode{state: Patrol},
	}}
}

func TestBehaviorTreePriorityScenario(t *testing.T) {
	tree := treeFallback()

	bb := NewBlackboard()
	bb.Set("health", 10.0)
	bb.Set("player_distance", 5.0)
	bb.Set("low_health_threshold", 20.0)
	bb.Set("perception_range", 10.0)
	tree.Tick(bb)
	assert.Equal(t, Flee, bb.AIState())

	bb = NewBlackboard()
	bb.Set("health", 80.0)
	bb.Set("player_distance", 5.0)
	bb.Set("low_health_threshold", 20.0)
	bb.Set("perception_range", 10.0)
	tree.Tick(bb)
	assert.Equal(t, Chase, bb.AIState())

	bb = NewBlackboard()
	bb.Set("health", 80.0)
	bb.Set("player_distance", 50.0)
	bb.Set("low_health_threshold", 20.0)
	bb.Set("perception_range", 10.0)
	tree.Tick(bb)
	assert.Equal(t, Patrol, bb.AIState())
}

func TestTickBehaviorTreesUpdatesAIStateAndBlend(t *testing.T) {
	app := fabric.NewApp()
	cmd := app.Commands()

	bb := NewBlackboard()
	bb.Set("health", 10.0)
	bb.Set("low_health_threshold", 20.0)
	bb.Set("player_distance", 5.0)
	bb.Set("perception_range", 10.0)

	cmd.AddEntity(
		BehaviorTree{Root: treeFallback(), Blackboard: bb},
		AIStateComponent{Value: Idle},
		AnimationBlendState{BlendDuration: 0.2},
	)
	app.FlushCommands()

	TickBehaviorTrees(cmd, 0.05)

	q := fabric.MakeQuery2[AIStateComponent, AnimationBlendState](cmd)
	var sawFlee, blending bool
	q.Map(func(id fabric.EntityId, s *AIStateComponent, b *AnimationBlendState) bool {
		sawFlee = s.Value == Flee
		blending = b.Blending
		return true
	})
	assert.True(t, sawFlee)
	assert.True(t, blending)
}

func TestEntitiesInRangeFiltersByDistance(t *testing.T) {
	app := fabric.NewApp()
	cmd := app.Commands()
	near := cmd.AddEntity(fabric.Position{X: 1, Y: 0, Z: 0})
	cmd.AddEntity(fabric.Position{X: 100, Y: 0, Z: 0})
	app.FlushCommands()

	ids := EntitiesInRange(cmd, mgl32.Vec3{0, 0, 0}, 5)
	assert.Equal(t, []fabric.EntityId{near}, ids)
}

func TestHasLineOfSightStopsAtOccluder(t *testing.T) {
	solid := map[[3]int]bool{{2, 0, 0}: true}
	grid := func(x, y, z int) float32 {
		if solid[[3]int{x, y, z}] {
			return 1
		}
		return 0
	}
	assert.False(t, HasLineOfSight(grid, 0.5, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{4, 0, 0}))
	assert.True(t, HasLineOfSight(grid, 0.5, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}))
}

func TestCanSeeTargetChecksRangeAngleAndLOS(t *testing.T) {
	origin := mgl32.Vec3{0, 0, 0}
	forward := mgl32.Vec3{1, 0, 0}
	inCone := mgl32.Vec3{5, 1, 0}
	outOfRange := mgl32.Vec3{50, 0, 0}

	assert.True(t, CanSeeTarget(origin, forward, inCone, 20, 90, true))
	assert.False(t, CanSeeTarget(origin, forward, outOfRange, 20, 90, true))
	assert.False(t, CanSeeTarget(origin, forward, inCone, 20, 90, false))
}

func TestObserverFlatListingCountsDepth(t *testing.T) {
	o := NewObserver()
	o.Record(1, "root/child/grandchild", Chase)
	entries := o.FlatListing()
	assert.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Depth)
}
