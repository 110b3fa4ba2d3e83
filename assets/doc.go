// Package assets loads external resources referenced by prefab payloads.
//
// A [Server] hands out an [ID] for every path immediately and loads the data
// out of band, either on a worker pool ([Server.Start]) or on demand
// ([Server.Flush]). Payload fields hold a [Ref], which a prefab resolution
// pass turns into a typed [Handle] by requesting its path from the server
// installed on the world with [Install]:
//
//	srv := assets.NewServer(assets.NewFSSource(os.DirFS("assets")))
//	assets.Install(world, srv)
//	go srv.Start(ctx)
//
// Resolving a Ref only issues the request. Use [Server.Wait] or
// [Server.Flush] when the data itself is needed before continuing.
//
// Images, TrueType/OpenType and BMFont fonts, and TexturePacker atlases have
// built-in loaders; register others with [Server.RegisterLoader].
package assets
