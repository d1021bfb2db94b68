package system

import (
	"fmt"
	"testing"
)

// BenchmarkPhysicsSystem_Update steps a crowd of walking characters on a
// flat stage
func BenchmarkPhysicsSystem_Update(b *testing.B) {
	for _, n := range []int{10, 100} {
		b.Run(fmt.Sprintf("%d bodies", n), func(b *testing.B) {
			stage, _ := createTestStage(n*2+4, 16)
			sys := NewPhysicsSystem(createTestPhysicsConfig(), stage, NewEventBus())
			for i := 0; i < n; i++ {
				body, brain := newCharacter(fmt.Sprintf("c%d", i), float64(32+i*32), 208)
				brain.cmd.Right = i%2 == 0
				brain.cmd.Left = i%2 == 1
				if err := sys.Attach(body); err != nil {
					b.Fatal(err)
				}
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				sys.Update(frame)
			}
		})
	}
}
