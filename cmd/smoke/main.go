package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"dtiestoque.org/internal/client"
	"dtiestoque.org/internal/inventory"
)

func main() {
	base := os.Getenv("ESTOQUE_API_URL")
	if base == "" {
		base = "http://localhost:3000"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	c := client.New(base, &http.Client{Timeout: 5 * time.Second})

	email := fmt.Sprintf("smoke-%s@dti.local", uuid.NewString()[:8])
	if _, err := c.Register(ctx, client.Registration{Name: "Smoke Test", Email: email, Password: "smoke"}); err != nil {
		log.Fatalf("register: %v", err)
	}
	if _, err := c.Login(ctx, email, "smoke"); err != nil {
		log.Fatalf("login: %v", err)
	}

	before, err := c.Counts(ctx)
	if err != nil {
		log.Fatalf("counts: %v", err)
	}

	tag := "SMOKE-" + uuid.NewString()[:8]
	fields := inventory.Fields{Type: "Notebook", Brand: "Smoke", Model: "T1", AssetTag: &tag, Status: inventory.StatusForDiscard}
	id, err := c.CreateEquipment(ctx, fields)
	if err != nil {
		log.Fatalf("create: %v", err)
	}

	mid, err := c.Counts(ctx)
	if err != nil {
		log.Fatalf("counts: %v", err)
	}
	if mid.Total != before.Total+1 || mid.Discard != before.Discard+1 || mid.InStock != mid.Total {
		log.Fatalf("unexpected counts after create: before=%+v after=%+v", before, mid)
	}

	fields.Status = inventory.StatusFunctioning
	if n, err := c.UpdateEquipment(ctx, id, fields); err != nil || n != 1 {
		log.Fatalf("update: affected=%d err=%v", n, err)
	}
	if n, err := c.DeleteEquipment(ctx, id); err != nil || n != 1 {
		log.Fatalf("delete: affected=%d err=%v", n, err)
	}

	after, err := c.Counts(ctx)
	if err != nil {
		log.Fatalf("counts: %v", err)
	}
	if after != before {
		log.Fatalf("counts not restored: before=%+v after=%+v", before, after)
	}

	fmt.Printf("✅ inventory smoke test passed: equipment=%d tag=%s\n", id, tag)
}
