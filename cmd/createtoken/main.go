package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nicopkrauss/talenttracker/security"
)

func main() {
	id := flag.String("id", "", "worker id (uuid)")
	name := flag.String("name", "", "worker name")
	role := flag.String("role", "talent_escort", "worker role")
	device := flag.String("device", "", "device id, for kiosk tokens")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *id == "" {
		fmt.Fprintln(os.Stderr, "usage: createtoken -id <uuid> [-name n] [-role r] [-device d] [-ttl 1h]")
		os.Exit(1)
	}

	secret := os.Getenv("TT_SIGNING_SECRET")
	token, err := security.CreateIdentityToken(&security.WorkerIdentity{
		ID:       *id,
		Name:     *name,
		Role:     *role,
		DeviceID: *device,
	}, secret, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
