package warps

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
)

// hazards are blocks nobody should be teleported into or onto.
var hazards = map[string]struct{}{
	"minecraft:lava":             {},
	"minecraft:flowing_lava":     {},
	"minecraft:fire":             {},
	"minecraft:soul_fire":        {},
	"minecraft:cactus":           {},
	"minecraft:magma":            {},
	"minecraft:sweet_berry_bush": {},
	"minecraft:wither_rose":      {},
	"minecraft:campfire":         {},
	"minecraft:soul_campfire":    {},
	"minecraft:powder_snow":      {},
}

func hazardous(b world.Block) bool {
	name, _ := b.EncodeBlock()
	_, ok := hazards[name]
	return ok
}

// txWorld answers block queries through a transaction of the world.
type txWorld struct {
	tx *world.Tx
}

// Name implements World.
func (w txWorld) Name() string {
	return w.tx.World().Name()
}

// Occupiable implements World.
func (w txWorld) Occupiable(pos cube.Pos) bool {
	return occupiable(w.tx, pos)
}

// Standable implements World.
func (w txWorld) Standable(pos cube.Pos) bool {
	return standable(w.tx, pos)
}

// Height implements World.
func (w txWorld) Height(pos cube.Pos) float64 {
	return height(w.tx, pos)
}

// foreignWorld is a world the caller holds no transaction of. Every query
// runs a transaction of its own and waits for it; Batch runs many queries in
// one. Waiting from inside another world's transaction can deadlock both
// worlds, so it is only used off the logic threads.
type foreignWorld struct {
	w *world.World
}

func (w foreignWorld) exec(fn func(tx *world.Tx)) {
	<-w.w.Exec(fn)
}

// Name implements World.
func (w foreignWorld) Name() string {
	return w.w.Name()
}

// Occupiable implements World.
func (w foreignWorld) Occupiable(pos cube.Pos) (ok bool) {
	w.exec(func(tx *world.Tx) { ok = occupiable(tx, pos) })
	return ok
}

// Standable implements World.
func (w foreignWorld) Standable(pos cube.Pos) (ok bool) {
	w.exec(func(tx *world.Tx) { ok = standable(tx, pos) })
	return ok
}

// Height implements World.
func (w foreignWorld) Height(pos cube.Pos) (h float64) {
	w.exec(func(tx *world.Tx) { h = height(tx, pos) })
	return h
}

// Batch implements BatchWorld.
func (w foreignWorld) Batch(fn func(w World)) {
	w.exec(func(tx *world.Tx) { fn(txWorld{tx: tx}) })
}

// worldOf returns the Dragonfly world behind w.
func worldOf(w World) *world.World {
	switch w := w.(type) {
	case txWorld:
		return w.tx.World()
	case foreignWorld:
		return w.w
	}
	return nil
}

// occupiable reports whether a body may be inside the cell: nothing to collide
// with and nothing that hurts.
func occupiable(tx *world.Tx, pos cube.Pos) bool {
	if pos.OutOfBounds(tx.Range()) {
		return false
	}
	b := tx.Block(pos)
	if hazardous(b) {
		return false
	}
	if l, ok := tx.Liquid(pos); ok && hazardous(l) {
		return false
	}
	return len(b.Model().BBox(pos, tx)) == 0
}

// standable reports whether the top of the cell is solid ground that does
// not hurt.
func standable(tx *world.Tx, pos cube.Pos) bool {
	if pos.OutOfBounds(tx.Range()) {
		return false
	}
	b := tx.Block(pos)
	if hazardous(b) {
		return false
	}
	return height(tx, pos) >= 1
}

// height returns the top of the highest collision box in the cell.
func height(tx *world.Tx, pos cube.Pos) float64 {
	if pos.OutOfBounds(tx.Range()) {
		return 0
	}
	var h float64
	for _, bb := range tx.Block(pos).Model().BBox(pos, tx) {
		h = max(h, bb.Max().Y())
	}
	return h
}
