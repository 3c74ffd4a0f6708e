package semantic

import "testing"

func signalType(t *testing.T, c *Context) *TypeSymbol {
	t.Helper()
	sig := c.ResolveType("System.Threading.CancellationToken")
	if sig == nil {
		t.Fatal("cancellation token type missing from the universe")
	}
	return sig
}

func TestCounterpartTable(t *testing.T) {
	c := contextOf(t, `
using System.Threading;
using System.Threading.Tasks;

namespace App
{
    public class Store
    {
        public void Save(string key) { }
        public Task SaveAsync(string key) { return null; }

        public int Get(string key) { return 0; }
        public Task<int> GetAsync(string key, CancellationToken cancellationToken) { return null; }

        public void Touch(CancellationToken token, string key) { }
        public Task TouchAsync(CancellationToken token, string key) { return null; }

        public void Renamed(string key) { }
        public Task RenamedAsync(string other) { return null; }

        public void Lonely(string key) { }
    }
}
`)
	store := typeNamed(t, c, "App.Store")
	table := BuildCounterpartTable(c, signalType(t, c))

	t.Run("plain match", func(t *testing.T) {
		cp, ok := table.Lookup(methodNamed(t, store, "Save"))
		if !ok {
			t.Fatal("Save has no counterpart")
		}
		if cp.Target.Name != "SaveAsync" || cp.HasToken() {
			t.Errorf("Save counterpart = %s, tokenIndex %d", cp.Target.Name, cp.TokenIndex)
		}
	})

	t.Run("cancellable match", func(t *testing.T) {
		cp, ok := table.Lookup(methodNamed(t, store, "Get"))
		if !ok {
			t.Fatal("Get has no counterpart")
		}
		if cp.Target.Name != "GetAsync" || cp.TokenIndex != 1 {
			t.Errorf("Get counterpart = %s, tokenIndex %d, want GetAsync at 1", cp.Target.Name, cp.TokenIndex)
		}
	})

	t.Run("signal in the original list is not an insertion slot", func(t *testing.T) {
		// TouchAsync matches Touch exactly, so both lists carry one signal
		// parameter; the cancellable pass must not claim it as the inserted
		// token.
		cp, ok := table.Lookup(methodNamed(t, store, "Touch"))
		if ok {
			t.Errorf("Touch matched %s at %d; equal-arity candidates with a signal never match", cp.Target.Name, cp.TokenIndex)
		}
	})

	t.Run("parameter names must agree", func(t *testing.T) {
		if cp, ok := table.Lookup(methodNamed(t, store, "Renamed")); ok {
			t.Errorf("Renamed matched %s despite a renamed parameter", cp.Target.Name)
		}
	})

	t.Run("no candidate", func(t *testing.T) {
		if _, ok := table.Lookup(methodNamed(t, store, "Lonely")); ok {
			t.Error("Lonely should have no counterpart")
		}
	})
}

func TestCounterpartTable_PrefersCancellable(t *testing.T) {
	c := contextOf(t, `
using System.Threading;
using System.Threading.Tasks;

namespace App
{
    public class Both
    {
        public void Run(int id) { }
        public Task RunAsync(int id) { return null; }
        public Task RunAsync(int id, CancellationToken cancellationToken) { return null; }
    }
}
`)
	both := typeNamed(t, c, "App.Both")
	table := BuildCounterpartTable(c, signalType(t, c))

	cp, ok := table.Lookup(methodNamed(t, both, "Run"))
	if !ok {
		t.Fatal("Run has no counterpart")
	}
	if !cp.HasToken() || cp.TokenIndex != 1 {
		t.Errorf("Run matched the plain overload; want the cancellable one at index 1, got %d", cp.TokenIndex)
	}
}

func TestCounterpartTable_TextualSignalFallback(t *testing.T) {
	// The stub redeclaration makes the simple name ambiguous, so the
	// parameter reference stays unresolved and matching falls back to the
	// spelled name.
	c := contextOf(t, `
namespace Fake
{
    public class CancellationToken { }
}

namespace App
{
    public class Plain
    {
        public void Send(string payload) { }
        public Task SendAsync(string payload, CancellationToken cancellationToken) { return null; }
    }
}
`)
	plain := typeNamed(t, c, "App.Plain")
	table := BuildCounterpartTable(c, signalType(t, c))

	cp, ok := table.Lookup(methodNamed(t, plain, "Send"))
	if !ok {
		t.Fatal("Send has no counterpart")
	}
	if cp.TokenIndex != 1 {
		t.Errorf("tokenIndex = %d, want 1", cp.TokenIndex)
	}
}

func TestCounterpartTable_ExtensionDeclaredLevel(t *testing.T) {
	c := contextOf(t, `
using System.Threading;
using System.Threading.Tasks;

namespace App
{
    public static class Ext
    {
        public static void Drain(this Pipe pipe, int amount) { }
        public static Task DrainAsync(this Pipe pipe, int amount, CancellationToken cancellationToken) { return null; }
    }

    public class Pipe { }
}
`)
	ext := typeNamed(t, c, "App.Ext")
	table := BuildCounterpartTable(c, signalType(t, c))

	cp, ok := table.Lookup(methodNamed(t, ext, "Drain"))
	if !ok {
		t.Fatal("Drain has no counterpart")
	}
	// declared index counts the receiver slot; call sites subtract the
	// reduction themselves
	if cp.TokenIndex != 2 {
		t.Errorf("tokenIndex = %d, want 2", cp.TokenIndex)
	}
}

func TestOverrideTable(t *testing.T) {
	c := contextOf(t, `
using System.Threading.Tasks;

namespace App
{
    public class WithTwin
    {
        public virtual void Load() { }
        public virtual Task LoadAsync() { return null; }
    }

    public class KeepsOverride : WithTwin
    {
        public override void Load() { }
    }

    public class MarkedBase
    {
        [RewriteAsync]
        public virtual void Fetch(int id) { }
    }

    public class KeepsViaMarker : MarkedBase
    {
        public override void Fetch(int id) { }
    }

    public class BareBase
    {
        public virtual void Jump() { }
    }

    public class DropsOverride : BareBase
    {
        public override void Jump() { }
        public new string ToString() { return null; }
    }
}
`)
	table := BuildOverrideTable(c, "RewriteAsync")

	keep := methodNamed(t, typeNamed(t, c, "App.KeepsOverride"), "Load")
	if !table.Keep(keep) {
		t.Error("override should survive when the base declares LoadAsync itself")
	}

	viaMarker := methodNamed(t, typeNamed(t, c, "App.KeepsViaMarker"), "Fetch")
	if !table.Keep(viaMarker) {
		t.Error("override should survive when the base method is marked and will grow its own twins")
	}

	drop := methodNamed(t, typeNamed(t, c, "App.DropsOverride"), "Jump")
	if table.Keep(drop) {
		t.Error("override must drop when no base counterpart will exist")
	}

	newMod := methodNamed(t, typeNamed(t, c, "App.DropsOverride"), "ToString")
	if table.Keep(newMod) {
		t.Error("new must drop when no base ToStringAsync exists")
	}
}
