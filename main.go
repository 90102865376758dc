package main

import (
	"log"
	"net/http"

	"vidgrab/vidgrab-backend/artifact"
	"vidgrab/vidgrab-backend/downloader"
	"vidgrab/vidgrab-backend/httpd"
	"vidgrab/vidgrab-backend/ipc"
	"vidgrab/vidgrab-backend/provider"
	"vidgrab/vidgrab-backend/store"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"
)

type cliArgs struct {
	Addr       string `arg:"--addr,env:ADDR" default:":8080" help:"listen address"`
	DBPath     string `arg:"--db,env:DOWNLOADS_DB" help:"download history database (default in-memory)"`
	SamplesDir string `arg:"--samples,env:SAMPLES_DIR" help:"directory of sample media assets"`
	IPCSocket  string `arg:"--ipc-socket,env:IPC_SOCKET" help:"unix socket for download event broadcast"`
	NoMerge    bool   `arg:"--no-merge,env:NO_MERGE" help:"disable the merge stage"`
}

func main() {
	log.Println("Starting VidGrab Backend...")

	// .env is optional here; flags and the real environment still apply.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	var args cliArgs
	arg.MustParse(&args)

	db, err := store.NewSQLiteStore(args.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	prov := provider.NewDispatcher(provider.NewCatalog(), provider.NewHLS(nil))
	registry := downloader.NewRegistry()
	synth := artifact.NewSynthesizer(args.SamplesDir)

	var merger downloader.Merger = downloader.BoxMerger{}
	if args.NoMerge {
		merger = downloader.DisabledMerger{Reason: "disabled by configuration"}
	}

	dlSvc := downloader.NewService(prov, synth, merger, registry, db)

	if args.IPCSocket != "" {
		events := ipc.NewHandler()
		dlSvc.SetEventHandler(events.Publish)
		go func() {
			if err := events.Listen(args.IPCSocket); err != nil {
				log.Printf("[IPC] Listener failed: %v", err)
			}
		}()
	}

	// 2. Create the HTTP router (and give it the services)
	router := httpd.NewRouter(dlSvc, synth, db)

	// 3. Start the server and BLOCK forever
	log.Printf("Server listening on %s", args.Addr)
	if err := http.ListenAndServe(args.Addr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
