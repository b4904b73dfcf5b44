package ops

import (
	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/thread"
)

// Sound blocks (spec.md §4.2 "Sound", §4.8 "Audio Engine"). Selection
// reuses selectIndex's name-preferring rule; playback and completion
// tracking are delegated to the Engine's audio port.
func init() {
	stackTable["sound_play"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		playSelectedSound(c, b, false)
		return nil
	}

	stackTable["sound_playuntildone"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		handle, ok := playSelectedSound(c, b, true)
		if !ok {
			return nil // ResourceMissing: spec.md §7, completes immediately
		}
		c.Thread.Wait = thread.WaitSound
		c.Thread.WaitSoundID = handle
		c.Thread.Status = thread.Waiting
		return nil
	}

	stackTable["sound_stopallsounds"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		c.Engine.StopAllSounds()
		return nil
	}

	stackTable["sound_setvolumeto"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		c.Target.SetVolume(c.Resolve(b, "VOLUME").ToNumber())
		return nil
	}

	stackTable["sound_seteffectto"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		v := c.Resolve(b, "VALUE").ToNumber()
		switch c.Field(b, "EFFECT") {
		case "pitch":
			c.Target.SetPitch(v)
		case "pan":
			c.Target.SetPan(v)
		}
		return nil
	}
}

func playSelectedSound(c *Context, b *blockgraph.Block, wait bool) (uint64, bool) {
	names := make([]string, len(c.Target.Sounds))
	for i, s := range c.Target.Sounds {
		names[i] = s.Name
	}
	i := selectIndex(names, c.Resolve(b, "SOUND_MENU"))
	if i < 0 {
		return 0, false
	}
	return c.Engine.PlaySound(c.Target, names[i], wait)
}
