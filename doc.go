// Package sakura types out a short greeting as a field of blooming
// cherry-blossom petals, rendered with [Ebitengine].
//
// Every frame the revealed text is rasterized offscreen into an occupancy
// mask. Each inked pixel owns one petal; when the text changes the previous
// pixel set is reconciled against the new mask so existing petals keep
// fluttering, new ink grows new petals, and vanished ink shrinks away.
//
// # Quick start
//
// The simplest way to run it is [Run] with a [Game]:
//
//	cfg := sakura.DefaultConfig()
//	cfg.Script.Text = "Hello/。World"
//	g, err := sakura.NewGame(cfg, sakura.GameOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(sakura.Run(g))
//
// # Script
//
// A script is plain text with in-band directives: '/' pauses the reveal,
// '。' starts a new line, '\' escapes the next marker, and '{...}' reveals a
// group in one step. See [ParseScript] and [Directives].
//
// # Core without a window
//
// [Loop] holds all per-frame state and never touches the GPU: drive it with
// [Loop.Frame], send it intents ([Loop.Skip], [Loop.Edit], [Loop.SetFocus],
// [Loop.Orbit], [Loop.Resize], [Loop.SetMobile]) and read back [Loop.Instances] and
// [Loop.Cursor]. [Game] is the thin [ebiten.Game] adapter around it.
//
// # Logging
//
// The package is silent by default. Call [SetLogger] with any [slog.Logger]
// to see lifecycle, reconcile, and fail-soft messages.
//
// [Ebitengine]: https://ebitengine.org
package sakura
