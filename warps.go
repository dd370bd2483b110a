// Package warps decides whether, when and where a player may teleport to a warp
// on a Dragonfly server.
//
// A teleport request flows through four independent concerns:
//   - Authorization: who may modify, use and view a warp
//   - Economy: an optional fee charged before anything else happens
//   - Time: warmups before a teleport and cooldowns after it
//   - Space: the stored position is corrected to the nearest safe cell
//
// # Quick Start
//
// Build an engine once the worlds are loaded:
//
//	perms := warps.NewPermissions()
//	game := warps.NewDragonflyGame(perms, srv.World(), srv.Nether(), srv.End())
//	store := warps.NewMemoryManager(nil)
//
//	engine := warps.NewBuilder(game, store).
//	    Settings(settings).
//	    Notifier(warps.NewPrinterNotifier()).
//	    Init()
//	defer engine.Shutdown()
//
//	for p := range srv.Accept() {
//	    sess := game.NewSession(p)
//	    p.Handle(warps.NewHandler(sess, engine.Timers()))
//	}
//
// Inside a command, convert the player and teleport:
//
//	ent := game.Entity(tx, p)
//	w, ok := store.Get(name)
//	if !ok || !engine.Resolver().IsUsable(w, ent) {
//	    return
//	}
//	engine.Service(warps.FeeWarpTo).Teleport(ent, w)
//
// # Status
//
// Teleport returns StatusNone when nothing moved, StatusOriginal when the entity
// arrived exactly at the stored position and StatusModified when the position was
// corrected. A warmup always returns StatusNone to the caller; the real outcome is
// resolved later on the scheduler.
//
// A world transaction never waits on another world. Entities from Game.Entity
// are bound to their transaction, so a teleport into another world detaches
// the player and continues off the logic thread. It returns StatusNone and the
// player learns the outcome from the notifications.
//
// # Permission Reference
//
//	warps.override.modify              Modify any warp (implies use and view)
//	warps.override.use                 Use any warp (implies view)
//	warps.override.view                View any warp
//	warps.world-access.<world>         Use warps in <world> when world access control is on
//	warps.timer.disobey                Skip warmups and cooldowns
//	warps.timer.disobey.move-abort     Keep a warmup running while moving
//	warps.timer.disobey.damage-abort   Keep a warmup running while taking damage
//	warps.timer.<kind>.<tier>          Use the duration of a configured tier
//	warps.economy.disobey              Skip fees
//	warps.fee.<fee>.<tier>             Pay the amount of a configured tier
package warps

// Version is the warps version.
const Version = "1.0.0"
