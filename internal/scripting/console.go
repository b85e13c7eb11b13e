package scripting

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/system"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Console is a Lua debug console bound to one world. It exposes read-mostly
// inspection functions plus a few switches (toggle, remove, freeze, slowmo).
// Single-goroutine access only (simulation loop).
type Console struct {
	vm    *lua.LState
	world *ecs.World
	coll  *system.CollisionSystem
	out   io.Writer
	log   *zap.Logger
}

// NewConsole creates a console for world. coll may be nil, in which case
// rules() returns an empty table.
func NewConsole(world *ecs.World, coll *system.CollisionSystem, log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Console{
		vm:    lua.NewState(),
		world: world,
		coll:  coll,
		out:   os.Stdout,
		log:   log,
	}
	c.vm.SetGlobal("API_VERSION", lua.LNumber(1))

	for name, fn := range map[string]lua.LGFunction{
		"print":      c.luaPrint,
		"entities":   c.luaEntities,
		"components": c.luaComponents,
		"systems":    c.luaSystems,
		"toggle":     c.luaToggle,
		"aspects":    c.luaAspects,
		"collisions": c.luaCollisions,
		"remove":     c.luaRemove,
		"position":   c.luaPosition,
		"freeze":     c.luaFreeze,
		"slowmo":     c.luaSlowMo,
		"rules":      c.luaRules,
	} {
		c.vm.SetGlobal(name, c.vm.NewFunction(fn))
	}
	return c
}

// SetOutput redirects print().
func (c *Console) SetOutput(w io.Writer) { c.out = w }

// Exec runs a chunk of Lua.
func (c *Console) Exec(code string) error {
	if err := c.vm.DoString(code); err != nil {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}

// RunFile runs a Lua file, typically a boot script from config.
func (c *Console) RunFile(path string) error {
	if err := c.vm.DoFile(path); err != nil {
		return fmt.Errorf("console %s: %w", path, err)
	}
	c.log.Debug("ran console script", zap.String("file", path))
	return nil
}

func (c *Console) Close() { c.vm.Close() }

func (c *Console) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(c.out, strings.Join(parts, "\t"))
	return 0
}

// checkEntity reads argument n as a live entity id, raising a Lua error otherwise.
func (c *Console) checkEntity(L *lua.LState, n int) ecs.EntityID {
	id := ecs.EntityID(L.CheckInt(n))
	if !c.world.Alive(id) {
		L.RaiseError("no entity %d", id)
	}
	return id
}

func (c *Console) luaEntities(L *lua.LState) int {
	t := L.NewTable()
	for _, id := range c.world.Entities() {
		t.Append(lua.LNumber(id))
	}
	L.Push(t)
	return 1
}

func (c *Console) luaComponents(L *lua.LState) int {
	id := c.checkEntity(L, 1)
	t := L.NewTable()
	for _, ct := range c.world.Container(id).SortedKeys() {
		t.Append(lua.LString(ct.String()))
	}
	L.Push(t)
	return 1
}

func (c *Console) luaSystems(L *lua.LState) int {
	t := L.NewTable()
	for _, info := range c.world.Systems() {
		row := L.NewTable()
		row.RawSetString("name", lua.LString(info.Name))
		row.RawSetString("priority", lua.LNumber(info.Priority))
		row.RawSetString("enabled", lua.LBool(info.Enabled))
		row.RawSetString("debug", lua.LBool(info.DebugExempt))
		row.RawSetString("aspects", lua.LNumber(info.Aspects))
		t.Append(row)
	}
	L.Push(t)
	return 1
}

func (c *Console) luaToggle(L *lua.LState) int {
	name := L.CheckString(1)
	if err := c.world.ToggleSystemByName(name); err != nil {
		L.RaiseError("%s", err.Error())
	}
	s, _ := c.world.SystemByName(name)
	c.log.Info("console toggled system", zap.String("system", name), zap.Bool("enabled", s.Enabled()))
	L.Push(lua.LBool(s.Enabled()))
	return 1
}

func (c *Console) luaAspects(L *lua.LState) int {
	name := L.CheckString(1)
	s, ok := c.world.SystemByName(name)
	if !ok {
		L.RaiseError("no system named %q", name)
	}
	t := L.NewTable()
	for _, id := range c.world.Aspects(s).IDs() {
		t.Append(lua.LNumber(id))
	}
	L.Push(t)
	return 1
}

func (c *Console) luaCollisions(L *lua.LState) int {
	id := c.checkEntity(L, 1)
	t := L.NewTable()
	shape := component.ShapeOf(c.world.Container(id))
	if shape == nil {
		L.Push(t)
		return 1
	}
	for _, other := range shape.Contacts() {
		info := shape.CollisionsFresh[other]
		row := L.NewTable()
		row.RawSetString("other", lua.LNumber(other))
		row.RawSetString("axis_x", lua.LNumber(info.Axis.X))
		row.RawSetString("axis_y", lua.LNumber(info.Axis.Y))
		row.RawSetString("amount", lua.LNumber(info.Amount))
		t.Append(row)
	}
	L.Push(t)
	return 1
}

func (c *Console) luaRemove(L *lua.LState) int {
	id := c.checkEntity(L, 1)
	c.world.RemoveEntity(id)
	return 0
}

func (c *Console) luaPosition(L *lua.LState) int {
	id := c.checkEntity(L, 1)
	pos := component.PositionOf(c.world.Container(id))
	if pos == nil {
		L.Push(lua.LNil)
		return 1
	}
	p := pos.Point()
	L.Push(lua.LNumber(p.X))
	L.Push(lua.LNumber(p.Y))
	L.Push(lua.LNumber(pos.Angle()))
	return 3
}

// freeze([on]) sets debug-only mode when given a boolean and returns the
// current state.
func (c *Console) luaFreeze(L *lua.LState) int {
	ts := c.world.TimeScale()
	if L.GetTop() >= 1 {
		if L.CheckBool(1) {
			ts.Freeze()
		} else {
			ts.Unfreeze()
		}
	}
	L.Push(lua.LBool(ts.Frozen()))
	return 1
}

// slowmo(factor, seconds) drops the time scale to factor and eases it back
// over seconds of wall time. Returns the new scale.
func (c *Console) luaSlowMo(L *lua.LState) int {
	factor := float64(L.CheckNumber(1))
	secs := float64(L.CheckNumber(2))
	if secs <= 0 {
		L.ArgError(2, "duration must be positive")
	}
	ts := c.world.TimeScale()
	ts.SlowMotion(factor, time.Duration(secs*float64(time.Second)))
	L.Push(lua.LNumber(ts.Scale()))
	return 1
}

func (c *Console) luaRules(L *lua.LState) int {
	t := L.NewTable()
	if c.coll != nil {
		for _, r := range c.coll.Rules() {
			t.Append(lua.LString(r.Name))
		}
	}
	L.Push(t)
	return 1
}
