package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/archers/internal/level"
	"github.com/tomz197/archers/internal/physics"
)

// Material only changes how an obstacle is drawn.
type Material int

const (
	Stone Material = iota
	Wood
	Wall
)

func (m Material) String() string {
	switch m {
	case Stone:
		return "stone"
	case Wood:
		return "wood"
	case Wall:
		return "wall"
	default:
		return "unknown"
	}
}

// Obstacle is a static box the arrow bounces off.
type Obstacle struct {
	physics.Rect
	Material Material
}

// NewObstacle creates an obstacle with its top-left corner at (x, y).
func NewObstacle(x, y, w, h float64, m Material) Obstacle {
	return Obstacle{Rect: physics.Rect{Pos: physics.V(x, y), W: w, H: h}, Material: m}
}

// Layout of the central wall band and the extra pieces of later levels.
const (
	wallBandWidth = 300.0
	minColumnW    = 30.0
	columnWJitter = 30.0
	maxColumnH    = FieldHeight - 80

	sideWallLevel  = 10 // side walls appear after this level
	floorRockLevel = 20 // floor blocks appear after this level
)

// BuildField lays out the obstacles for a level. Column sizes are random; pass a
// seeded rng to reproduce a layout.
func BuildField(lv level.Level, rng *rand.Rand) []Obstacle {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	field := make([]Obstacle, 0, lv.ObstacleCount+4)
	left := FieldWidth/2 - wallBandWidth/2
	for i := 0; i < lv.ObstacleCount; i++ {
		w := minColumnW + rng.Float64()*columnWJitter
		h := math.Min(maxColumnH, lv.MaxObstacleHeight*0.7+rng.Float64()*lv.MaxObstacleHeight*0.3)
		x := left + float64(i)*(wallBandWidth/float64(lv.ObstacleCount))

		m := Stone
		if i%2 == 1 {
			m = Wood
		}
		field = append(field, NewObstacle(x, FieldHeight-h, w, h, m))
	}

	if lv.ID > sideWallLevel {
		field = append(field,
			NewObstacle(250, 150, 20, 200, Wall),
			NewObstacle(FieldWidth-270, 150, 20, 200, Wall),
		)
	}
	if lv.ID > floorRockLevel {
		field = append(field,
			NewObstacle(400, FieldHeight-40, 100, 40, Stone),
			NewObstacle(700, FieldHeight-40, 100, 40, Stone),
		)
	}
	return field
}
