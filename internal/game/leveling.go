package game

import "digital-world/internal/shared"

// ExpToNextLevel is the experience cost of leaving level.
func ExpToNextLevel(level int) int {
	return (4*level*level)/6 + 10
}

// ExperienceYield is what one defeated monster is worth.
func ExperienceYield(m *shared.Monster) int {
	return 5 + 3*m.Stats.LEVEL
}

func TotalExperience(monsters []*shared.Monster) int {
	total := 0
	for _, m := range monsters {
		total += ExperienceYield(m)
	}
	return total
}

// ApplyExperience adds exp and levels the player up as many times as the
// accumulated experience pays for. It returns the number of levels gained.
func (e *Engine) ApplyExperience(p *shared.PlayerRecord, exp int) int {
	if p.Stats == nil {
		return 0
	}
	p.Stats.EXP += exp
	growth := e.classes.Get(p.BattleClass).Growth
	gained := 0
	for {
		cost := ExpToNextLevel(p.Stats.LEVEL)
		if p.Stats.EXP < cost {
			break
		}
		p.Stats.EXP -= cost
		p.Stats.LEVEL++
		p.Stats.HP += growth.HP
		p.Stats.MP += growth.MP
		p.Stats.AP += growth.AP
		p.Stats.SPD += growth.SPD
		gained++
	}
	return gained
}
