package block

import "strconv"

// Идентификаторы блоков устаревшего формата
const (
	AirID LegacyID = iota
	StoneID
	GrassID
	DirtID
	CobblestoneID
	PlanksID
	SaplingID
	BedrockID
	FlowingWaterID
	WaterID
	FlowingLavaID
	LavaID
	SandID
	GravelID
	GoldOreID
	IronOreID
	CoalOreID
	LogID
	LeavesID
	SpongeID
	GlassID
	LapisOreID
	LapisBlockID

	SandstoneID LegacyID = 24
	WoolID      LegacyID = 35
	GoldBlockID LegacyID = 41
	IronBlockID LegacyID = 42
	BrickID     LegacyID = 45
	ObsidianID  LegacyID = 49
)

var woodTypes = []string{"oak", "spruce", "birch", "jungle"}

var colours = []string{
	"white", "orange", "magenta", "light_blue", "yellow", "lime", "pink", "gray",
	"light_gray", "cyan", "purple", "blue", "brown", "green", "red", "black",
}

var stoneVariants = []string{
	"stone", "granite", "polished_granite", "diorite", "polished_diorite", "andesite", "polished_andesite",
}

// Air — состояние воздуха
var Air = NewState(DefaultNamespace, "air", nil)

func simple(name string) State {
	return NewState(DefaultNamespace, name, nil)
}

// DefaultLegacyTableVersion меняется при любом изменении DefaultLegacyTable,
// чтобы кешированные структуры не пережили смену таблицы.
const DefaultLegacyTableVersion = "legacy-default/1"

// DefaultLegacyTable возвращает таблицу для классического набора блоков.
// Полноценный перевод между версиями выполняет внешний слой; таблица покрывает
// блоки, встречающиеся в типичных схематиках.
func DefaultLegacyTable() *LegacyTable {
	t := NewLegacyTable()

	t.RegisterAny(AirID, Air)
	for data, name := range stoneVariants {
		t.Register(StoneID, uint8(data), simple(name))
	}
	t.RegisterAny(GrassID, NewState(DefaultNamespace, "grass_block", map[string]string{"snowy": "false"}))
	t.Register(DirtID, 0, simple("dirt"))
	t.Register(DirtID, 1, simple("coarse_dirt"))
	t.Register(DirtID, 2, NewState(DefaultNamespace, "podzol", map[string]string{"snowy": "false"}))
	t.RegisterAny(CobblestoneID, simple("cobblestone"))
	t.RegisterAny(BedrockID, simple("bedrock"))
	t.RegisterAny(SpongeID, simple("sponge"))
	t.RegisterAny(GlassID, simple("glass"))
	t.RegisterAny(LapisOreID, simple("lapis_ore"))
	t.RegisterAny(LapisBlockID, simple("lapis_block"))
	t.RegisterAny(GoldOreID, simple("gold_ore"))
	t.RegisterAny(IronOreID, simple("iron_ore"))
	t.RegisterAny(CoalOreID, simple("coal_ore"))
	t.RegisterAny(GravelID, simple("gravel"))
	t.RegisterAny(GoldBlockID, simple("gold_block"))
	t.RegisterAny(IronBlockID, simple("iron_block"))
	t.RegisterAny(BrickID, simple("bricks"))
	t.RegisterAny(ObsidianID, simple("obsidian"))

	t.Register(SandID, 0, simple("sand"))
	t.Register(SandID, 1, simple("red_sand"))
	t.Register(SandstoneID, 0, simple("sandstone"))
	t.Register(SandstoneID, 1, simple("chiseled_sandstone"))
	t.Register(SandstoneID, 2, simple("cut_sandstone"))

	for data, wood := range woodTypes {
		t.Register(PlanksID, uint8(data), simple(wood+"_planks"))
		t.Register(SaplingID, uint8(data), NewState(DefaultNamespace, wood+"_sapling", map[string]string{"stage": "0"}))
		t.Register(SaplingID, uint8(data|8), NewState(DefaultNamespace, wood+"_sapling", map[string]string{"stage": "1"}))

		// Биты 2-3 задают ось бревна: 0 — y, 4 — x, 8 — z, 12 — кора со всех сторон
		t.Register(LogID, uint8(data), NewState(DefaultNamespace, wood+"_log", map[string]string{"axis": "y"}))
		t.Register(LogID, uint8(data|4), NewState(DefaultNamespace, wood+"_log", map[string]string{"axis": "x"}))
		t.Register(LogID, uint8(data|8), NewState(DefaultNamespace, wood+"_log", map[string]string{"axis": "z"}))
		t.Register(LogID, uint8(data|12), NewState(DefaultNamespace, wood+"_wood", map[string]string{"axis": "y"}))

		// Бит 4 — «не опадает», бит 8 — «проверить опадание»
		for flags := uint8(0); flags < 16; flags += 4 {
			persistent := "false"
			if flags&4 != 0 {
				persistent = "true"
			}
			t.Register(LeavesID, uint8(data)|flags, NewState(DefaultNamespace, wood+"_leaves", map[string]string{
				"persistent": persistent,
				"distance":   "7",
			}))
		}
	}

	for level := uint8(0); level < 16; level++ {
		props := map[string]string{"level": strconv.Itoa(int(level))}
		t.Register(FlowingWaterID, level, NewState(DefaultNamespace, "water", props))
		t.Register(WaterID, level, NewState(DefaultNamespace, "water", props))
		t.Register(FlowingLavaID, level, NewState(DefaultNamespace, "lava", props))
		t.Register(LavaID, level, NewState(DefaultNamespace, "lava", props))
	}

	for data, colour := range colours {
		t.Register(WoolID, uint8(data), simple(colour+"_wool"))
	}

	return t
}
