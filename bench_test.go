package coercez

import (
	"testing"
)

var benchSink bool

// BenchmarkStringGuard compares the String guard with a bare type assertion.
func BenchmarkStringGuard(b *testing.B) {
	isString := Is(String)
	inputs := map[string]any{"Pass": "foo", "Fail": 1}

	for outcome, input := range inputs {
		b.Run(outcome+"/TypeAssertion", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, benchSink = input.(string)
			}
		})

		b.Run(outcome+"/Is", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				benchSink = isString.Test(input)
			}
		})

		b.Run(outcome+"/Coerce", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, err := String.Coerce(input)
				benchSink = err == nil
			}
		})
	}
}

// BenchmarkChains measures composed coercers against their error paths.
func BenchmarkChains(b *testing.B) {
	b.Run("To/Success", func(b *testing.B) {
		name := To[string](String, Trim, NonEmpty)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := name.Coerce(" foo "); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("To/Failure", func(b *testing.B) {
		name := To[string](String, Trim, NonEmpty)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = name.Coerce(" ") //nolint:errcheck // benchmarking error path performance
		}
	})

	b.Run("Numeric", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := Numeric.Coerce("$1,234.50"); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("ProperName", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := ProperName.Coerce("  ol' mcdonald, iv "); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Pipeline", func(b *testing.B) {
		p := NewPipeline[string]("bench", String, Trim, NonEmpty)
		defer p.Close()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := p.Coerce(" foo "); err != nil {
				b.Fatal(err)
			}
		}
	})
}
