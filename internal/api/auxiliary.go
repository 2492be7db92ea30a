package api

import (
	"context"
	"encoding/json"
)

// The auxiliary endpoints have no fixed schema on the backend side, so their
// payloads are passed through untouched.

func (c *Client) ARContent(ctx context.Context) ([]json.RawMessage, error) {
	var out []json.RawMessage
	if err := c.get(ctx, "/api/ar", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ARContentForSlot(ctx context.Context, slotID string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.get(ctx, "/api/ar/slot/"+escape(slotID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) HologramEffects(ctx context.Context) ([]json.RawMessage, error) {
	var out []json.RawMessage
	if err := c.get(ctx, "/api/visual-effects/hologram", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SystemConfig(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.get(ctx, "/api/system-config", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateSystemConfig(ctx context.Context, cfg any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.put(ctx, "/api/system-config", cfg, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) PerformanceMetrics(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.get(ctx, "/api/performance-monitoring", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Devices(ctx context.Context) ([]json.RawMessage, error) {
	var out []json.RawMessage
	if err := c.get(ctx, "/api/devices", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SyncDevices(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.post(ctx, "/api/sync", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
